package controllers

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vesystem/ve-api/models"
)

func TestGetQuestionsStripsAnswerKey(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/education/questions?limit=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataOf(t, w)
	questions := data["questions"].([]interface{})
	require.NotEmpty(t, questions)
	for _, q := range questions {
		row := q.(map[string]interface{})
		require.NotContains(t, row, "answer")
		require.NotContains(t, row, "explanation")
		// options come back parsed, not as a JSON string
		_, isString := row["options"].(string)
		require.False(t, isString)
	}
}

func TestGetQuestionsSubjectFilter(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/education/questions?subject=science", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataOf(t, w)
	questions := data["questions"].([]interface{})
	require.Len(t, questions, 1)
	require.Equal(t, "science", questions[0].(map[string]interface{})["subject"])
}

func TestSubmitAnswerAnonymousIsNotPersisted(t *testing.T) {
	env := newTestEnv(t)

	data := env.submitAnswer(t, "", gin.H{"question_id": "q-math-1", "answer": "B"})
	require.Equal(t, true, data["correct"])
	require.Equal(t, "B", data["correct_answer"])
	require.Equal(t, false, data["persisted"])
	require.NotContains(t, data, "account")

	var events int64
	require.NoError(t, env.db.Model(&models.AnswerEvent{}).Count(&events).Error)
	require.Zero(t, events)
}

func TestSubmitAnswerInvalidTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/education/answer", "not-a-jwt",
		gin.H{"question_id": "q-math-1", "answer": "B"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAnswerValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/education/answer", "", gin.H{"answer": "B"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/education/answer", "", gin.H{"question_id": "q-math-1"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/education/answer", "",
		gin.H{"question_id": "q-nope", "answer": "B"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitAnswerRewardPipeline(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "pipeline")

	data := env.submitAnswer(t, token, gin.H{
		"question_id": "q-math-1",
		"answer":      "B",
		"time_spent":  7,
	})
	require.Equal(t, true, data["correct"])
	require.Equal(t, true, data["persisted"])
	require.Equal(t, false, data["leveled_up"])

	account := data["account"].(map[string]interface{})
	require.EqualValues(t, 20, account["experience"])
	require.EqualValues(t, 510, account["gold"])
	require.EqualValues(t, 1, account["level"])

	var event models.AnswerEvent
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&event).Error)
	require.Equal(t, "q-math-1", event.QuestionID)
	require.Equal(t, "math", event.Subject)
	require.Equal(t, "B", event.CorrectAnswer)
	require.NotEmpty(t, event.EventUID)
	require.NotNil(t, event.TimeSpent)
	require.Equal(t, 7, *event.TimeSpent)

	var stat models.DailyStat
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stat).Error)
	require.Equal(t, time.Now().Format(models.DateLayout), stat.Date)
	require.Equal(t, 1, stat.QuestionsAnswered)
	require.Equal(t, 1, stat.CorrectCount)
	require.Equal(t, 20, stat.ExpGained)
	require.Equal(t, 10, stat.GoldGained)
	require.Equal(t, 7, stat.TimeSpent)
	require.Equal(t, 1, stat.Streak)
	require.Equal(t, 1, stat.MaxStreak)

	var record models.MasteryRecord
	require.NoError(t, env.db.Where("user_id = ? AND subject = ?", userID, "math").First(&record).Error)
	require.Equal(t, 1, record.Attempts)
	require.Equal(t, 1, record.CorrectCount)
	require.InDelta(t, 100.0, record.MasteryLevel, 0.001)
}

func TestSubmitAnswerIncorrectReward(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "wrongonce")

	data := env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "A"})
	require.Equal(t, false, data["correct"])

	account := data["account"].(map[string]interface{})
	require.EqualValues(t, 5, account["experience"])
	require.EqualValues(t, 500, account["gold"])

	var stat models.DailyStat
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stat).Error)
	require.Equal(t, 0, stat.CorrectCount)
	require.Equal(t, 0, stat.Streak)
}

func TestFifteenCorrectAnswersReachLevelTwo(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "climber")

	var last map[string]interface{}
	for i := 0; i < 15; i++ {
		last = env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "B"})
		if i < 14 {
			require.Equal(t, false, last["leveled_up"], "leveled up too early at answer %d", i+1)
		}
	}

	require.Equal(t, true, last["leveled_up"])
	account := last["account"].(map[string]interface{})
	require.EqualValues(t, 300, account["experience"])
	require.EqualValues(t, 650, account["gold"])
	require.EqualValues(t, 2, account["level"])
}

func TestDailyStreakResetsOnIncorrect(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "streaker")

	// correct, correct, incorrect, correct
	env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "B"})
	env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "B"})
	env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "Z"})
	env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "B"})

	var stat models.DailyStat
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stat).Error)
	require.Equal(t, 4, stat.QuestionsAnswered)
	require.Equal(t, 3, stat.CorrectCount)
	require.Equal(t, 1, stat.Streak)
	require.Equal(t, 2, stat.MaxStreak)
}

func TestMasteryRecomputedFromCounts(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "mastery")

	env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "B"})
	env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "A"})
	env.submitAnswer(t, token, gin.H{"question_id": "q-math-1", "answer": "B"})

	var record models.MasteryRecord
	require.NoError(t, env.db.Where("user_id = ? AND subject = ?", userID, "math").First(&record).Error)
	require.Equal(t, 3, record.Attempts)
	require.Equal(t, 2, record.CorrectCount)
	require.InDelta(t, 200.0/3.0, record.MasteryLevel, 0.01)
	require.WithinDuration(t, record.LastStudied.Add(models.ReviewInterval), record.NextReview, time.Second)
}

func TestClientEventIDReplayAppliesOnce(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "replayer")

	body := gin.H{"question_id": "q-math-1", "answer": "B", "client_event_id": "evt-123"}

	first := env.submitAnswer(t, token, body)
	require.Equal(t, false, first["duplicate"])

	second := env.submitAnswer(t, token, body)
	require.Equal(t, true, second["duplicate"])

	account := second["account"].(map[string]interface{})
	require.EqualValues(t, 20, account["experience"])
	require.EqualValues(t, 510, account["gold"])

	var events int64
	require.NoError(t, env.db.Model(&models.AnswerEvent{}).Where("user_id = ?", userID).Count(&events).Error)
	require.EqualValues(t, 1, events)
}

func TestConcurrentSubmissionsLoseNoUpdates(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "parallel")

	const workers = 4
	const perWorker = 5

	codes := make(chan int, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				w := env.do(t, http.MethodPost, "/api/v1/education/answer", token,
					gin.H{"question_id": "q-math-1", "answer": "B"})
				codes <- w.Code
			}
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		require.Equal(t, http.StatusOK, code)
	}

	var user models.User
	require.NoError(t, env.db.First(&user, userID).Error)
	total := workers * perWorker
	require.Equal(t, total*models.RewardCorrectExp, user.Experience)
	require.Equal(t, 500+total*models.RewardCorrectGold, user.Gold)
	require.Equal(t, models.LevelForExperience(user.Experience), user.Level)

	var stat models.DailyStat
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stat).Error)
	require.Equal(t, total, stat.QuestionsAnswered)
	require.Equal(t, total, stat.CorrectCount)
}

func TestHistoryReturnsRecentFirst(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "historian")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedEvent(t, env.db, userID, "math", true, base.Add(time.Duration(i)*time.Minute))
	}

	w := env.do(t, http.MethodGet, "/api/v1/progress/history?limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataOf(t, w)
	events := data["events"].([]interface{})
	require.Len(t, events, 2)

	first := events[0].(map[string]interface{})
	second := events[1].(map[string]interface{})
	require.Greater(t, first["created_at"].(string), second["created_at"].(string))
}
