package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestScenarioCompleteKeepsBestScore(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "player")

	w := env.do(t, http.MethodPost, "/api/v1/ve/scenarios/intro-1/complete", token, gin.H{"score": 80})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	require.Equal(t, true, data["completed"])
	require.EqualValues(t, 80, data["best_score"])
	firstCompletedAt := data["completed_at"]
	require.NotNil(t, firstCompletedAt)

	// a worse replay neither lowers the score nor moves the timestamp
	w = env.do(t, http.MethodPost, "/api/v1/ve/scenarios/intro-1/complete", token, gin.H{"score": 40})
	require.Equal(t, http.StatusOK, w.Code)
	data = dataOf(t, w)
	require.EqualValues(t, 80, data["best_score"])
	require.Equal(t, firstCompletedAt, data["completed_at"])

	// a better replay raises it
	w = env.do(t, http.MethodPost, "/api/v1/ve/scenarios/intro-1/complete", token, gin.H{"score": 95})
	require.Equal(t, http.StatusOK, w.Code)
	data = dataOf(t, w)
	require.EqualValues(t, 95, data["best_score"])
}

func TestScenarioCompleteRejectsNegativeScore(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "cheater")

	w := env.do(t, http.MethodPost, "/api/v1/ve/scenarios/intro-1/complete", token, gin.H{"score": -5})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScenarioProgressList(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "explorer")

	for _, id := range []string{"zone-b", "zone-a"} {
		w := env.do(t, http.MethodPost, "/api/v1/ve/scenarios/"+id+"/complete", token, gin.H{"score": 10})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/ve/scenarios/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	require.EqualValues(t, 2, data["count"])

	rows := data["progress"].([]interface{})
	require.Equal(t, "zone-a", rows[0].(map[string]interface{})["scenario_id"])
	require.Equal(t, "zone-b", rows[1].(map[string]interface{})["scenario_id"])
}
