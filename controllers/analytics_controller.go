package controllers

import (
	"math"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vesystem/ve-api/models"
	"github.com/vesystem/ve-api/utils"
)

// AnalyticsController aggregates the event ledger and daily stats into
// read-only views. Nothing in here mutates state.
type AnalyticsController struct {
	db *gorm.DB
}

// NewAnalyticsController creates a new controller instance.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{db: db}
}

// Tuning knobs for the overview views.
const (
	trendDays         = 7
	weakSubjectMin    = 5
	weakSubjectLimit  = 3
	recentEventsLimit = 20
	recentWrongLimit  = 10
)

type subjectAgg struct {
	Subject  string  `json:"subject"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// Overview returns the per-subject breakdown, the recent daily trend, the
// weakest subjects, the hour-of-day distribution and the best streak.
func (a *AnalyticsController) Overview(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}

	subjects, err := a.subjectBreakdown(userID, 1)
	if err != nil {
		utils.StorageFailure(ctx, 50040, "failed to aggregate subjects")
		return
	}

	var trend []models.DailyStat
	if err := a.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(trendDays).
		Find(&trend).Error; err != nil {
		utils.StorageFailure(ctx, 50041, "failed to load daily trend")
		return
	}

	weak := weakestSubjects(subjects, weakSubjectMin, weakSubjectLimit)

	hourly, err := a.hourlyDistribution(userID)
	if err != nil {
		utils.StorageFailure(ctx, 50042, "failed to load hourly distribution")
		return
	}

	var bestStreak int
	if err := a.db.Model(&models.DailyStat{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(max_streak), 0)").
		Scan(&bestStreak).Error; err != nil {
		bestStreak = 0
	}

	utils.Success(ctx, gin.H{
		"subjects":      subjects,
		"daily_trend":   trend,
		"weak_subjects": weak,
		"hourly":        hourly,
		"best_streak":   bestStreak,
	})
}

// SubjectDetail is the deep dive into one subject: aggregate stats plus the
// most recent events and the most recent incorrect ones.
func (a *AnalyticsController) SubjectDetail(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}
	subject := strings.TrimSpace(ctx.Param("subject"))
	if subject == "" {
		utils.InvalidInput(ctx, 40040, "missing subject")
		return
	}

	type detailAgg struct {
		Total   int
		Correct int
		AvgTime float64
	}
	var agg detailAgg
	if err := a.db.Model(&models.AnswerEvent{}).
		Where("user_id = ? AND subject = ?", userID, subject).
		Select("COUNT(*) AS total, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct, COALESCE(AVG(time_spent), 0) AS avg_time").
		Scan(&agg).Error; err != nil {
		utils.StorageFailure(ctx, 50043, "failed to aggregate subject")
		return
	}
	if agg.Total == 0 {
		utils.NotFound(ctx, 40430, "no events for subject")
		return
	}

	var recent []models.AnswerEvent
	if err := a.db.Where("user_id = ? AND subject = ?", userID, subject).
		Order("created_at DESC, id DESC").
		Limit(recentEventsLimit).
		Find(&recent).Error; err != nil {
		utils.StorageFailure(ctx, 50044, "failed to load recent events")
		return
	}

	var recentWrong []models.AnswerEvent
	if err := a.db.Where("user_id = ? AND subject = ? AND correct = ?", userID, subject, false).
		Order("created_at DESC, id DESC").
		Limit(recentWrongLimit).
		Find(&recentWrong).Error; err != nil {
		utils.StorageFailure(ctx, 50045, "failed to load incorrect events")
		return
	}

	utils.Success(ctx, gin.H{
		"subject":          subject,
		"total":            agg.Total,
		"correct":          agg.Correct,
		"accuracy":         round1(float64(agg.Correct) / float64(agg.Total) * 100),
		"avg_time_spent":   round1(agg.AvgTime),
		"recent_events":    recent,
		"recent_incorrect": recentWrong,
	})
}

// subjectBreakdown groups the user's events by subject, keeping subjects with
// at least minTotal events.
func (a *AnalyticsController) subjectBreakdown(userID uint, minTotal int) ([]subjectAgg, error) {
	var aggs []subjectAgg
	err := a.db.Model(&models.AnswerEvent{}).
		Where("user_id = ? AND subject <> ''", userID).
		Select("subject, COUNT(*) AS total, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct").
		Group("subject").
		Having("COUNT(*) >= ?", minTotal).
		Order("subject ASC").
		Scan(&aggs).Error
	if err != nil {
		return nil, err
	}
	for i := range aggs {
		aggs[i].Accuracy = round1(float64(aggs[i].Correct) / float64(aggs[i].Total) * 100)
	}
	return aggs, nil
}

// weakestSubjects filters by minimum volume and sorts by accuracy ascending.
func weakestSubjects(subjects []subjectAgg, minTotal, limit int) []subjectAgg {
	weak := make([]subjectAgg, 0, len(subjects))
	for _, s := range subjects {
		if s.Total >= minTotal {
			weak = append(weak, s)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		if weak[i].Accuracy != weak[j].Accuracy {
			return weak[i].Accuracy < weak[j].Accuracy
		}
		return weak[i].Subject < weak[j].Subject
	})
	if len(weak) > limit {
		weak = weak[:limit]
	}
	return weak
}

// hourlyDistribution buckets events by hour of day in server-local time.
func (a *AnalyticsController) hourlyDistribution(userID uint) (map[int]int, error) {
	var events []models.AnswerEvent
	if err := a.db.Select("created_at").
		Where("user_id = ?", userID).
		Find(&events).Error; err != nil {
		return nil, err
	}
	hourly := map[int]int{}
	for _, e := range events {
		hourly[e.CreatedAt.Local().Hour()]++
	}
	return hourly, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
