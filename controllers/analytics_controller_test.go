package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vesystem/ve-api/models"
)

// seedSubject inserts total events for one subject, the first correct of
// which are graded correct.
func seedSubject(t *testing.T, env *testEnv, userID uint, subject string, total, correct int) {
	t.Helper()
	base := time.Now().Add(-2 * time.Hour)
	for i := 0; i < total; i++ {
		seedEvent(t, env.db, userID, subject, i < correct, base.Add(time.Duration(i)*time.Minute))
	}
}

func TestOverviewWeakSubjectsNeedVolume(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "analyst")

	// algebra: 10 events at 50%; biology: 6 at ~33%; history: 3 at ~33%.
	// history stays below the overview volume floor of 5 events.
	seedSubject(t, env, userID, "algebra", 10, 5)
	seedSubject(t, env, userID, "biology", 6, 2)
	seedSubject(t, env, userID, "history", 3, 1)

	w := env.do(t, http.MethodGet, "/api/v1/analytics/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)

	weak := data["weak_subjects"].([]interface{})
	require.Len(t, weak, 2)
	first := weak[0].(map[string]interface{})
	second := weak[1].(map[string]interface{})
	require.Equal(t, "biology", first["subject"])
	require.InDelta(t, 33.3, first["accuracy"].(float64), 0.1)
	require.Equal(t, "algebra", second["subject"])
	require.InDelta(t, 50.0, second["accuracy"].(float64), 0.1)

	subjects := data["subjects"].([]interface{})
	require.Len(t, subjects, 3)
}

func TestOverviewDailyTrendAndBestStreak(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "trender")

	// ten days of stats; the trend keeps only the most recent seven
	for i := 0; i < 10; i++ {
		stat := models.DailyStat{
			UserID:            userID,
			Date:              time.Now().AddDate(0, 0, -i).Format(models.DateLayout),
			QuestionsAnswered: 5,
			MaxStreak:         i + 1,
		}
		require.NoError(t, env.db.Create(&stat).Error)
	}

	w := env.do(t, http.MethodGet, "/api/v1/analytics/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)

	trend := data["daily_trend"].([]interface{})
	require.Len(t, trend, 7)
	newest := trend[0].(map[string]interface{})
	require.Equal(t, time.Now().Format(models.DateLayout), newest["date"])

	require.EqualValues(t, 10, data["best_streak"])
}

func TestOverviewHourlyDistribution(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "owl")

	today := time.Now()
	nine := time.Date(today.Year(), today.Month(), today.Day(), 9, 0, 0, 0, time.Local)
	seedEvent(t, env.db, userID, "math", true, nine)
	seedEvent(t, env.db, userID, "math", true, nine.Add(10*time.Minute))
	seedEvent(t, env.db, userID, "math", false, nine.Add(13*time.Hour))

	w := env.do(t, http.MethodGet, "/api/v1/analytics/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	hourly := dataOf(t, w)["hourly"].(map[string]interface{})

	require.EqualValues(t, 2, hourly["9"])
	require.EqualValues(t, 1, hourly["22"])
}

func TestSubjectDetail(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "diver")

	seedSubject(t, env, userID, "chemistry", 25, 15)

	w := env.do(t, http.MethodGet, "/api/v1/analytics/subject/chemistry", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)

	require.EqualValues(t, 25, data["total"])
	require.EqualValues(t, 15, data["correct"])
	require.InDelta(t, 60.0, data["accuracy"].(float64), 0.01)
	require.Len(t, data["recent_events"].([]interface{}), 20)
	require.Len(t, data["recent_incorrect"].([]interface{}), 10)

	for _, e := range data["recent_incorrect"].([]interface{}) {
		require.Equal(t, false, e.(map[string]interface{})["correct"])
	}
}

func TestSubjectDetailUnknownSubject(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "lost")

	w := env.do(t, http.MethodGet, "/api/v1/analytics/subject/geography", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyticsIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)
	aliceID, _ := env.register(t, "alice")
	_, bobToken := env.register(t, "bob")

	seedSubject(t, env, aliceID, "algebra", 8, 4)

	w := env.do(t, http.MethodGet, "/api/v1/analytics/overview", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	require.Empty(t, data["subjects"])
}
