package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vesystem/ve-api/config"
	"github.com/vesystem/ve-api/models"
	"github.com/vesystem/ve-api/utils"
)

// LeaderboardController ranks accounts by a selectable metric. Results are
// deterministic: every metric breaks ties by user id ascending. Pages are
// cached briefly in Redis; the write path invalidates them.
type LeaderboardController struct {
	db *gorm.DB
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{db: db}
}

// accuracyMinEvents is the volume floor for the accuracy ranking; a perfect
// score over a handful of answers is noise, not a rank.
const accuracyMinEvents = 10

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	Level    int     `json:"level"`
	Score    float64 `json:"score"`
}

// Leaderboard serves /leaderboard?metric=experience|accuracy|streak&limit=N.
func (l *LeaderboardController) Leaderboard(ctx *gin.Context) {
	metric := ctx.DefaultQuery("metric", "experience")
	limit := queryInt(ctx, "limit", 10, 100)

	cacheKey := fmt.Sprintf("cache:leaderboard:%s:%d", metric, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var (
		entries []LeaderboardEntry
		err     error
	)
	switch metric {
	case "experience":
		entries, err = l.byExperience(limit)
	case "accuracy":
		entries, err = l.byAccuracy(limit)
	case "streak":
		entries, err = l.byStreak(limit)
	default:
		utils.InvalidInput(ctx, 40060, "unknown leaderboard metric")
		return
	}
	if err != nil {
		utils.StorageFailure(ctx, 50060, "failed to build leaderboard")
		return
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	payload := utils.JSONResponse{
		Code:    0,
		Message: "success",
		Data: gin.H{
			"metric":  metric,
			"entries": entries,
		},
	}
	ttl := time.Duration(config.Get().LeaderboardCacheSec) * time.Second
	utils.CacheSetJSON(cacheKey, payload, ttl)

	ctx.JSON(http.StatusOK, payload)
}

func (l *LeaderboardController) byExperience(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := l.db.Model(&models.User{}).
		Select("id AS user_id, username, level, experience AS score").
		Order("experience DESC, id ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

func (l *LeaderboardController) byAccuracy(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := l.db.Model(&models.User{}).
		Select("users.id AS user_id, users.username, users.level, " +
			"SUM(CASE WHEN answer_events.correct THEN 1 ELSE 0 END) * 100.0 / COUNT(answer_events.id) AS score").
		Joins("JOIN answer_events ON answer_events.user_id = users.id").
		Group("users.id").
		Having("COUNT(answer_events.id) >= ?", accuracyMinEvents).
		Order("score DESC, users.id ASC").
		Limit(limit).
		Scan(&entries).Error
	for i := range entries {
		entries[i].Score = round1(entries[i].Score)
	}
	return entries, err
}

func (l *LeaderboardController) byStreak(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := l.db.Model(&models.User{}).
		Select("users.id AS user_id, users.username, users.level, MAX(daily_stats.max_streak) AS score").
		Joins("JOIN daily_stats ON daily_stats.user_id = users.id").
		Group("users.id").
		Order("score DESC, users.id ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
