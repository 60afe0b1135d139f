package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vesystem/ve-api/config"
	"github.com/vesystem/ve-api/utils"
)

// TableController is the generic tabular reader over the content databases:
// list tables, page through rows. It never touches the core store.
type TableController struct{}

// NewTableController creates a new controller instance.
func NewTableController() *TableController {
	return &TableController{}
}

// ListTables returns the table names of one content database.
func (t *TableController) ListTables(ctx *gin.Context) {
	dbName := ctx.Param("db")
	h, err := config.ContentDB(dbName)
	if err != nil {
		utils.NotFound(ctx, 40440, fmt.Sprintf("database %s not found", dbName))
		return
	}

	var tables []string
	if err := h.Raw("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name").Scan(&tables).Error; err != nil {
		utils.StorageFailure(ctx, 50090, "failed to list tables")
		return
	}

	utils.Success(ctx, gin.H{
		"database": dbName,
		"tables":   tables,
		"count":    len(tables),
	})
}

// QueryTable pages through one table: column names, rows as field maps and
// the total row count.
func (t *TableController) QueryTable(ctx *gin.Context) {
	dbName := ctx.Param("db")
	tableName := ctx.Param("table")

	h, err := config.ContentDB(dbName)
	if err != nil {
		utils.NotFound(ctx, 40440, fmt.Sprintf("database %s not found", dbName))
		return
	}
	if !config.ValidIdentifier(tableName) || !tableExists(h, tableName) {
		utils.NotFound(ctx, 40441, fmt.Sprintf("table %s not found", tableName))
		return
	}

	limit := queryInt(ctx, "limit", 20, 500)
	offset := queryOffset(ctx)

	columns, err := tableColumns(h, tableName)
	if err != nil {
		utils.StorageFailure(ctx, 50091, "failed to read table schema")
		return
	}

	var rows []map[string]interface{}
	if err := h.Table(tableName).Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		utils.StorageFailure(ctx, 50092, "failed to query table")
		return
	}

	var total int64
	if err := h.Table(tableName).Count(&total).Error; err != nil {
		utils.StorageFailure(ctx, 50093, "failed to count rows")
		return
	}

	utils.Success(ctx, gin.H{
		"database": dbName,
		"table":    tableName,
		"columns":  columns,
		"data":     rows,
		"pagination": gin.H{
			"limit":  limit,
			"offset": offset,
			"total":  total,
		},
	})
}

func tableExists(h *gorm.DB, name string) bool {
	var count int64
	if err := h.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func tableColumns(h *gorm.DB, name string) ([]string, error) {
	type columnInfo struct {
		Name string
	}
	var infos []columnInfo
	// identifier is validated upstream; PRAGMA cannot take bound parameters
	if err := h.Raw("PRAGMA table_info(" + name + ")").Scan(&infos).Error; err != nil {
		return nil, err
	}
	columns := make([]string, 0, len(infos))
	for _, info := range infos {
		columns = append(columns, info.Name)
	}
	return columns, nil
}

// serveContentTable backs the convenience content routes (quests, NPCs, shop,
// trade) that pin a database and table pair.
func serveContentTable(ctx *gin.Context, dbName, tableName, field, orderBy string) {
	h, err := config.ContentDB(dbName)
	if err != nil {
		utils.NotFound(ctx, 40440, fmt.Sprintf("database %s not found", dbName))
		return
	}
	if !tableExists(h, tableName) {
		utils.NotFound(ctx, 40441, fmt.Sprintf("table %s not found", tableName))
		return
	}

	limit := queryInt(ctx, "limit", 100, 500)

	var rows []map[string]interface{}
	q := h.Table(tableName).Limit(limit)
	if orderBy != "" && config.ValidIdentifier(orderBy) {
		q = q.Order(orderBy + " ASC")
	}
	if err := q.Find(&rows).Error; err != nil {
		utils.StorageFailure(ctx, 50092, "failed to query table")
		return
	}

	utils.Success(ctx, gin.H{
		field:   rows,
		"count": len(rows),
	})
}

// Quests lists quest rewards from the VE content store.
func (t *TableController) Quests(ctx *gin.Context) {
	serveContentTable(ctx, "ve", "quest_rewards", "quests", "quest_id")
}

// NPCs lists NPC dialogues from the VE content store.
func (t *TableController) NPCs(ctx *gin.Context) {
	serveContentTable(ctx, "ve", "npc_dialogues", "npcs", "")
}

// ShopItems lists shop items from the VE content store.
func (t *TableController) ShopItems(ctx *gin.Context) {
	serveContentTable(ctx, "ve", "shop_items", "items", "")
}

// TradeStrategies lists trading strategies.
func (t *TableController) TradeStrategies(ctx *gin.Context) {
	serveContentTable(ctx, "trade", "trading_strategies", "strategies", "")
}

// TradeIndicators lists technical indicators.
func (t *TableController) TradeIndicators(ctx *gin.Context) {
	serveContentTable(ctx, "trade", "technical_indicators", "indicators", "")
}
