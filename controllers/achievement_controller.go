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

// AchievementController exposes the write-once unlock store. Unlock triggers
// live in game content, not here; the API only guarantees first-wins.
type AchievementController struct {
	db *gorm.DB
}

// NewAchievementController creates a new controller instance.
func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{db: db}
}

// List returns the authenticated user's achievement unlocks and badges.
func (a *AchievementController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}

	var unlocks []models.AchievementUnlock
	if err := a.db.Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&unlocks).Error; err != nil {
		utils.StorageFailure(ctx, 50080, "failed to load achievements")
		return
	}

	var badges []models.BadgeEarned
	if err := a.db.Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&badges).Error; err != nil {
		utils.StorageFailure(ctx, 50081, "failed to load badges")
		return
	}

	utils.Success(ctx, gin.H{
		"achievements": unlocks,
		"badges":       badges,
	})
}

// Unlock records an achievement for the authenticated user. Re-unlocking is a
// no-op and reports the already-unlocked state.
func (a *AchievementController) Unlock(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}
	achievementID := strings.TrimSpace(ctx.Param("id"))
	if achievementID == "" {
		utils.InvalidInput(ctx, 40080, "missing achievement id")
		return
	}

	unlock := models.AchievementUnlock{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	res := a.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&unlock)
	if res.Error != nil {
		utils.StorageFailure(ctx, 50082, "failed to record unlock")
		return
	}

	var saved models.AchievementUnlock
	if err := a.db.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&saved).Error; err != nil {
		utils.StorageFailure(ctx, 50083, "failed to load unlock")
		return
	}

	utils.Success(ctx, gin.H{
		"achievement":      saved,
		"already_unlocked": res.RowsAffected == 0,
	})
}
