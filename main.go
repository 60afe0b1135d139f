package main

import (
	"github.com/vesystem/ve-api/config"
	"github.com/vesystem/ve-api/models"
	"github.com/vesystem/ve-api/routes"
	"github.com/vesystem/ve-api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.AnswerEvent{},
		&models.DailyStat{},
		&models.MasteryRecord{},
		&models.ScenarioProgress{},
		&models.AchievementUnlock{},
		&models.BadgeEarned{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
