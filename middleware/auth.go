package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vesystem/ve-api/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token for logout.
	ContextTokenKey = "token"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			utils.Unauthorized(ctx, 40101, "authorization header missing or malformed")
			ctx.Abort()
			return
		}
		if !resolveToken(ctx, token) {
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// AuthOptional resolves an identity when a bearer token is presented and lets
// anonymous requests through untouched. A token that is present but invalid is
// still rejected; silently downgrading it to anonymous would hide revocations.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			ctx.Next()
			return
		}
		if !resolveToken(ctx, token) {
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func resolveToken(ctx *gin.Context, token string) bool {
	if utils.IsTokenBlacklisted(token) {
		utils.Unauthorized(ctx, 40104, "token revoked")
		return false
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Unauthorized(ctx, 40105, "invalid token")
		return false
	}
	ctx.Set(ContextUserIDKey, claims.UserID)
	ctx.Set(ContextUsernameKey, claims.Username)
	ctx.Set(ContextTokenKey, token)
	return true
}
