package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vesystem/ve-api/config"
	"github.com/vesystem/ve-api/utils"
)

const apiVersion = "1.0.0"

// StatusController answers the service banner, liveness/readiness probes and
// the system status overview. It reads only the content registry.
type StatusController struct{}

// NewStatusController creates a new controller instance.
func NewStatusController() *StatusController {
	return &StatusController{}
}

// Index is the service banner at /.
func (s *StatusController) Index(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"name":      "VE-System API",
		"version":   apiVersion,
		"status":    "running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Live reports process liveness.
func (s *StatusController) Live(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Ready probes every content database and reports partial readiness with 503
// when any is missing or broken.
func (s *StatusController) Ready(ctx *gin.Context) {
	status := gin.H{}
	allOK := true

	for _, name := range config.ContentDatabaseNames() {
		h, err := config.ContentDB(name)
		if err != nil {
			status[name] = "not found"
			allOK = false
			continue
		}
		if err := h.Exec("SELECT 1").Error; err != nil {
			status[name] = "error: " + err.Error()
			allOK = false
			continue
		}
		status[name] = "ok"
	}

	code := http.StatusOK
	state := "ready"
	if !allOK {
		code = http.StatusServiceUnavailable
		state = "partial"
	}
	ctx.JSON(code, gin.H{
		"status":    state,
		"databases": status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Status is the system overview: per-database table and record counts.
func (s *StatusController) Status(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:status"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	dbStats := gin.H{}
	totalTables := 0
	var totalRecords int64

	for _, name := range config.ContentDatabaseNames() {
		h, err := config.ContentDB(name)
		if err != nil {
			dbStats[name] = gin.H{"status": "not found"}
			continue
		}

		var tables []string
		if err := h.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables).Error; err != nil {
			dbStats[name] = gin.H{"error": err.Error()}
			continue
		}

		var records int64
		for _, table := range tables {
			if !config.ValidIdentifier(table) {
				continue
			}
			var c int64
			if err := h.Table(table).Count(&c).Error; err == nil {
				records += c
			}
		}

		dbStats[name] = gin.H{
			"tables":  len(tables),
			"records": records,
		}
		totalTables += len(tables)
		totalRecords += records
	}

	payload := gin.H{
		"system":    "VE-System",
		"version":   apiVersion,
		"databases": dbStats,
		"totals": gin.H{
			"databases": len(config.ContentDatabaseNames()),
			"tables":    totalTables,
			"records":   totalRecords,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}
	utils.CacheSetJSON("cache:status", payload, 5*time.Minute)

	ctx.JSON(http.StatusOK, payload)
}
