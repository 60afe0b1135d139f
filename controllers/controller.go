package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vesystem/ve-api/middleware"
)

// getUserID fetches the authenticated user's ID from the request context.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// queryInt reads an integer query parameter, clamped to [1, ceil], falling
// back to def when absent or unparseable.
func queryInt(ctx *gin.Context, name string, def, ceil int) int {
	v := strings.TrimSpace(ctx.Query(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	if n > ceil {
		return ceil
	}
	return n
}

// queryOffset reads a non-negative offset parameter.
func queryOffset(ctx *gin.Context) int {
	v := strings.TrimSpace(ctx.Query("offset"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
