package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vesystem/ve-api/config"
	"github.com/vesystem/ve-api/controllers"
	"github.com/vesystem/ve-api/middleware"
	"github.com/vesystem/ve-api/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.RequestLogger())
	r.Use(utils.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	statusController := controllers.NewStatusController()
	authController := controllers.NewAuthController(db)
	answerController := controllers.NewAnswerController(db)
	analyticsController := controllers.NewAnalyticsController(db)
	recommendationController := controllers.NewRecommendationController(db)
	leaderboardController := controllers.NewLeaderboardController(db)
	scenarioController := controllers.NewScenarioController(db)
	achievementController := controllers.NewAchievementController(db)
	tableController := controllers.NewTableController()

	r.GET("/", statusController.Index)
	r.GET("/health", statusController.Live)
	r.GET("/health/live", statusController.Live)
	r.GET("/health/ready", statusController.Ready)

	api := r.Group("/api/v1")

	api.GET("/status", statusController.Status)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Tabular reader over the content databases
	api.GET("/db/:db/tables", tableController.ListTables)
	api.GET("/db/:db/table/:table", tableController.QueryTable)

	// Content convenience routes
	api.GET("/ve/quests", tableController.Quests)
	api.GET("/ve/npcs", tableController.NPCs)
	api.GET("/ve/shop", tableController.ShopItems)
	api.GET("/trade/strategies", tableController.TradeStrategies)
	api.GET("/trade/indicators", tableController.TradeIndicators)

	// Question bank is public; answer submission persists only with identity
	api.GET("/education/questions", answerController.GetQuestions)
	api.POST("/education/answer", middleware.AuthOptional(), answerController.SubmitAnswer)

	api.GET("/leaderboard", leaderboardController.Leaderboard)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.GET("/progress/history", answerController.History)
	protected.GET("/analytics/overview", analyticsController.Overview)
	protected.GET("/analytics/subject/:subject", analyticsController.SubjectDetail)
	protected.GET("/recommendations", recommendationController.Recommendations)
	protected.POST("/ve/scenarios/:id/complete", scenarioController.Complete)
	protected.GET("/ve/scenarios/progress", scenarioController.Progress)
	protected.GET("/achievements", achievementController.List)
	protected.POST("/achievements/:id/unlock", achievementController.Unlock)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
