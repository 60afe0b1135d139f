package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// The three failure kinds the API distinguishes, plus a generic storage
// failure. Codes follow the teacher convention of HTTP status * 100 + app id.

// NotFound reports an unknown user, subject, scenario, database or table.
func NotFound(ctx *gin.Context, code int, message string) {
	Error(ctx, http.StatusNotFound, code, message)
}

// InvalidInput reports a missing or malformed request field.
func InvalidInput(ctx *gin.Context, code int, message string) {
	Error(ctx, http.StatusBadRequest, code, message)
}

// Unauthorized reports a missing or unusable identity.
func Unauthorized(ctx *gin.Context, code int, message string) {
	Error(ctx, http.StatusUnauthorized, code, message)
}

// StorageFailure reports an unexpected persistence error without leaking it.
func StorageFailure(ctx *gin.Context, code int, message string) {
	Error(ctx, http.StatusInternalServerError, code, message)
}
