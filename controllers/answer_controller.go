package controllers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vesystem/ve-api/config"
	"github.com/vesystem/ve-api/models"
	"github.com/vesystem/ve-api/utils"
)

// AnswerController serves the question bank and grades answer submissions.
// Submission is the only write path of the progress engine: one graded answer
// fans out into the event ledger, the account totals, the daily aggregate and
// the mastery record, all inside a single transaction.
type AnswerController struct {
	db *gorm.DB
}

// NewAnswerController creates a new controller instance.
func NewAnswerController(db *gorm.DB) *AnswerController {
	return &AnswerController{db: db}
}

type submitAnswerRequest struct {
	QuestionID    string `json:"question_id"`
	Answer        string `json:"answer"`
	Subject       string `json:"subject"`
	TimeSpent     *int   `json:"time_spent"`
	ClientEventID string `json:"client_event_id"`
}

type questionKey struct {
	Answer      string
	Explanation string
	Subject     string
}

// GetQuestions returns a random selection from the education question bank,
// optionally filtered by subject.
func (a *AnswerController) GetQuestions(ctx *gin.Context) {
	edu, err := config.ContentDB("education")
	if err != nil {
		utils.NotFound(ctx, 40420, "education database not found")
		return
	}

	limit := queryInt(ctx, "limit", 10, 50)
	subject := strings.TrimSpace(ctx.Query("subject"))

	var rows []map[string]interface{}
	q := edu.Raw("SELECT * FROM exam_questions ORDER BY RANDOM() LIMIT ?", limit)
	if subject != "" {
		q = edu.Raw("SELECT * FROM exam_questions WHERE subject = ? ORDER BY RANDOM() LIMIT ?", subject, limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		utils.StorageFailure(ctx, 50020, "failed to query questions")
		return
	}

	for _, row := range rows {
		// options are stored as a JSON string in the content table
		if s, ok := row["options"].(string); ok && s != "" {
			var parsed interface{}
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				row["options"] = parsed
			}
		}
		delete(row, "answer")
		delete(row, "explanation")
	}

	utils.Success(ctx, gin.H{
		"questions": rows,
		"count":     len(rows),
	})
}

// SubmitAnswer grades a submission against the question bank and, for
// authenticated callers, applies the full reward pipeline. Anonymous callers
// get the graded result and reward preview without any persistence.
func (a *AnswerController) SubmitAnswer(ctx *gin.Context) {
	var req submitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.InvalidInput(ctx, 40010, "invalid answer payload")
		return
	}
	req.QuestionID = strings.TrimSpace(req.QuestionID)
	if req.QuestionID == "" {
		utils.InvalidInput(ctx, 40011, "question_id is required")
		return
	}
	if req.Answer == "" {
		utils.InvalidInput(ctx, 40012, "answer is required")
		return
	}

	key, err := a.lookupQuestion(req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, config.ErrDatabaseNotFound) {
			utils.NotFound(ctx, 40421, "question not found")
			return
		}
		utils.StorageFailure(ctx, 50021, "failed to load question")
		return
	}

	correct := req.Answer == key.Answer
	reward := models.ComputeReward(correct)

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = key.Subject
	}

	userID, authenticated := getUserID(ctx)
	if !authenticated {
		utils.Success(ctx, gin.H{
			"correct":        correct,
			"correct_answer": key.Answer,
			"explanation":    key.Explanation,
			"your_answer":    req.Answer,
			"reward":         reward,
			"persisted":      false,
		})
		return
	}

	res, err := a.applyAnswer(userID, req, subject, key.Answer, correct, reward)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx, 40410, "user not found")
			return
		}
		utils.StorageFailure(ctx, 50022, "failed to record answer")
		return
	}

	// Rankings changed; drop cached leaderboard pages.
	utils.InvalidateByPrefix("cache:leaderboard:")

	utils.Success(ctx, gin.H{
		"correct":        correct,
		"correct_answer": key.Answer,
		"explanation":    key.Explanation,
		"your_answer":    req.Answer,
		"reward":         reward,
		"persisted":      true,
		"duplicate":      res.duplicate,
		"leveled_up":     res.leveledUp,
		"account": gin.H{
			"level":      res.account.Level,
			"experience": res.account.Experience,
			"gold":       res.account.Gold,
		},
	})
}

// History returns the most recent answer events for the authenticated user.
func (a *AnswerController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}

	limit := queryInt(ctx, "limit", 50, 200)

	var events []models.AnswerEvent
	if err := a.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		utils.StorageFailure(ctx, 50023, "failed to load history")
		return
	}

	utils.Success(ctx, gin.H{
		"events": events,
		"count":  len(events),
	})
}

func (a *AnswerController) lookupQuestion(questionID string) (questionKey, error) {
	edu, err := config.ContentDB("education")
	if err != nil {
		return questionKey{}, err
	}

	var key questionKey
	res := edu.Raw(
		"SELECT answer, COALESCE(explanation, '') AS explanation, COALESCE(subject, '') AS subject FROM exam_questions WHERE question_id = ?",
		questionID,
	).Scan(&key)
	if res.Error != nil {
		return questionKey{}, res.Error
	}
	if res.RowsAffected == 0 {
		return questionKey{}, gorm.ErrRecordNotFound
	}
	return key, nil
}

type applyResult struct {
	account   models.User
	leveledUp bool
	duplicate bool
}

// applyAnswer runs the reward pipeline for one event. All counter mutations
// are expressed as SQL increments and conflict-upserts so that concurrent
// submissions for the same user never lose an update; either every write in
// here commits or none do.
func (a *AnswerController) applyAnswer(userID uint, req submitAnswerRequest, subject, correctAnswer string, correct bool, reward models.Reward) (applyResult, error) {
	var out applyResult
	now := time.Now()
	correctInc := 0
	if correct {
		correctInc = 1
	}
	spent := 0
	if req.TimeSpent != nil && *req.TimeSpent > 0 {
		spent = *req.TimeSpent
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		var clientEventID *string
		if cid := strings.TrimSpace(req.ClientEventID); cid != "" {
			clientEventID = &cid
			var existing models.AnswerEvent
			err := tx.Where("user_id = ? AND client_event_id = ?", userID, cid).First(&existing).Error
			if err == nil {
				// replayed submission; report current state, apply nothing
				out.duplicate = true
				return tx.First(&out.account, userID).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var before models.User
		if err := tx.First(&before, userID).Error; err != nil {
			return err
		}

		event := models.AnswerEvent{
			UserID:        userID,
			EventUID:      uuid.NewString(),
			ClientEventID: clientEventID,
			QuestionID:    req.QuestionID,
			Subject:       subject,
			Correct:       correct,
			Answer:        req.Answer,
			CorrectAnswer: correctAnswer,
			TimeSpent:     req.TimeSpent,
			CreatedAt:     now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		// Level is derived from the post-increment experience inside the same
		// statement, so concurrent rewards always net to the right totals.
		if err := tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(map[string]interface{}{
			"experience": gorm.Expr("experience + ?", reward.Exp),
			"gold":       gorm.Expr("gold + ?", reward.Gold),
			"level":      gorm.Expr("(experience + ?) / ? + 1", reward.Exp, models.LevelThreshold),
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		if err := tx.First(&out.account, userID).Error; err != nil {
			return err
		}
		out.leveledUp = out.account.Level > before.Level

		stat := models.DailyStat{
			UserID:            userID,
			Date:              now.Format(models.DateLayout),
			QuestionsAnswered: 1,
			CorrectCount:      correctInc,
			ExpGained:         reward.Exp,
			GoldGained:        reward.Gold,
			TimeSpent:         spent,
			Streak:            correctInc,
			MaxStreak:         correctInc,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"questions_answered": gorm.Expr("questions_answered + 1"),
				"correct_count":      gorm.Expr("correct_count + ?", correctInc),
				"exp_gained":         gorm.Expr("exp_gained + ?", reward.Exp),
				"gold_gained":        gorm.Expr("gold_gained + ?", reward.Gold),
				"time_spent":         gorm.Expr("time_spent + ?", spent),
				"streak":             gorm.Expr("CASE WHEN ? = 1 THEN streak + 1 ELSE 0 END", correctInc),
				"max_streak":         gorm.Expr("MAX(max_streak, CASE WHEN ? = 1 THEN streak + 1 ELSE 0 END)", correctInc),
				"updated_at":         now,
			}),
		}).Create(&stat).Error; err != nil {
			return err
		}

		if subject == "" {
			return nil
		}

		record := models.MasteryRecord{
			UserID:       userID,
			Subject:      subject,
			Attempts:     1,
			CorrectCount: correctInc,
			MasteryLevel: float64(correctInc) * 100,
			LastStudied:  now,
			NextReview:   now.Add(models.ReviewInterval),
		}
		// Mastery is recomputed from the post-increment counts: the SET
		// clause sees the pre-update row, so both counters get their delta
		// added before the division.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "subject"}, {Name: "concept_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"attempts":      gorm.Expr("attempts + 1"),
				"correct_count": gorm.Expr("correct_count + ?", correctInc),
				"mastery_level": gorm.Expr("(correct_count + ?) * 100.0 / (attempts + 1)", correctInc),
				"last_studied":  now,
				"next_review":   now.Add(models.ReviewInterval),
				"updated_at":    now,
			}),
		}).Create(&record).Error
	})

	return out, err
}
