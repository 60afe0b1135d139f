package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vesystem/ve-api/models"
	"github.com/vesystem/ve-api/utils"
)

// RecommendationController derives study suggestions from the mastery records
// and the event ledger. Two lists, concatenated: weak subjects first, then
// subjects overdue for review.
type RecommendationController struct {
	db        *gorm.DB
	analytics *AnalyticsController
}

// NewRecommendationController creates a new controller instance.
func NewRecommendationController(db *gorm.DB) *RecommendationController {
	return &RecommendationController{db: db, analytics: NewAnalyticsController(db)}
}

const (
	recWeakSubjectMin   = 3
	recWeakSubjectLimit = 3
	recReviewLimit      = 5
)

// Recommendation is one ranked study suggestion.
type Recommendation struct {
	Type    string  `json:"type"`
	Subject string  `json:"subject"`
	Message string  `json:"message"`
	Value   float64 `json:"value"`
}

// Recommendations assembles the suggestion list for the authenticated user.
func (r *RecommendationController) Recommendations(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}

	subjects, err := r.analytics.subjectBreakdown(userID, 1)
	if err != nil {
		utils.StorageFailure(ctx, 50050, "failed to aggregate subjects")
		return
	}

	recs := []Recommendation{}
	for _, s := range weakestSubjects(subjects, recWeakSubjectMin, recWeakSubjectLimit) {
		recs = append(recs, Recommendation{
			Type:    "weak_subject",
			Subject: s.Subject,
			Message: fmt.Sprintf("Your accuracy in %s is %.1f%%. Spend your next session there.", s.Subject, s.Accuracy),
			Value:   s.Accuracy,
		})
	}

	cutoff := time.Now().Add(-models.ReviewInterval)
	var stale []models.MasteryRecord
	if err := r.db.Where("user_id = ? AND last_studied < ?", userID, cutoff).
		Order("mastery_level ASC, subject ASC").
		Limit(recReviewLimit).
		Find(&stale).Error; err != nil {
		utils.StorageFailure(ctx, 50051, "failed to load mastery records")
		return
	}
	for _, m := range stale {
		days := int(time.Since(m.LastStudied).Hours() / 24)
		recs = append(recs, Recommendation{
			Type:    "review",
			Subject: m.Subject,
			Message: fmt.Sprintf("You have not studied %s for %d days; a quick review keeps it fresh.", m.Subject, days),
			Value:   m.MasteryLevel,
		})
	}

	utils.Success(ctx, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}
