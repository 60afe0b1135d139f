package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vesystem/ve-api/models"
)

func TestAchievementUnlockIsWriteOnce(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "collector")

	w := env.do(t, http.MethodPost, "/api/v1/achievements/first-blood/unlock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	require.Equal(t, false, data["already_unlocked"])
	first := data["achievement"].(map[string]interface{})

	w = env.do(t, http.MethodPost, "/api/v1/achievements/first-blood/unlock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataOf(t, w)
	require.Equal(t, true, data["already_unlocked"])
	// the original unlock timestamp survives the replay
	require.Equal(t, first["unlocked_at"], data["achievement"].(map[string]interface{})["unlocked_at"])

	var count int64
	require.NoError(t, env.db.Model(&models.AchievementUnlock{}).Where("user_id = ?", userID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAchievementListIncludesBadges(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register(t, "decorated")

	w := env.do(t, http.MethodPost, "/api/v1/achievements/ten-in-a-row/unlock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	badge := models.BadgeEarned{UserID: userID, BadgeID: "bronze-scholar"}
	require.NoError(t, env.db.Create(&badge).Error)

	w = env.do(t, http.MethodGet, "/api/v1/achievements", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)

	require.Len(t, data["achievements"].([]interface{}), 1)
	require.Len(t, data["badges"].([]interface{}), 1)
}
