package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vesystem/ve-api/models"
	"github.com/vesystem/ve-api/utils"
)

// ScenarioController records scenario completions. Progress is monotone: a
// completion never un-completes, a lower score never replaces a better one.
type ScenarioController struct {
	db *gorm.DB
}

// NewScenarioController creates a new controller instance.
func NewScenarioController(db *gorm.DB) *ScenarioController {
	return &ScenarioController{db: db}
}

type completeScenarioRequest struct {
	Score int `json:"score"`
}

// Complete upserts a scenario result for the authenticated user.
func (s *ScenarioController) Complete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}

	scenarioID := strings.TrimSpace(ctx.Param("id"))
	if scenarioID == "" {
		utils.InvalidInput(ctx, 40070, "missing scenario id")
		return
	}

	var req completeScenarioRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.InvalidInput(ctx, 40071, "invalid scenario payload")
		return
	}
	if req.Score < 0 {
		utils.InvalidInput(ctx, 40072, "score must be non-negative")
		return
	}

	now := time.Now()
	progress := models.ScenarioProgress{
		UserID:      userID,
		ScenarioID:  scenarioID,
		Completed:   true,
		BestScore:   req.Score,
		CompletedAt: &now,
	}
	// MAX keeps the best score; the original completion timestamp survives
	// repeat plays via COALESCE.
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "scenario_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    true,
			"best_score":   gorm.Expr("MAX(best_score, ?)", req.Score),
			"completed_at": gorm.Expr("COALESCE(completed_at, ?)", now),
			"updated_at":   now,
		}),
	}).Create(&progress).Error; err != nil {
		utils.StorageFailure(ctx, 50070, "failed to record completion")
		return
	}

	var saved models.ScenarioProgress
	if err := s.db.Where("user_id = ? AND scenario_id = ?", userID, scenarioID).First(&saved).Error; err != nil {
		utils.StorageFailure(ctx, 50071, "failed to load progress")
		return
	}

	utils.Success(ctx, saved)
}

// Progress lists all scenario progress rows for the authenticated user.
func (s *ScenarioController) Progress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}

	var rows []models.ScenarioProgress
	if err := s.db.Where("user_id = ?", userID).
		Order("scenario_id ASC").
		Find(&rows).Error; err != nil {
		utils.StorageFailure(ctx, 50072, "failed to load progress")
		return
	}

	utils.Success(ctx, gin.H{
		"progress": rows,
		"count":    len(rows),
	})
}
