package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vesystem/ve-api/config"
	"github.com/vesystem/ve-api/middleware"
	"github.com/vesystem/ve-api/models"
	"github.com/vesystem/ve-api/utils"
)

// AuthController handles registration, login and session endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account. New accounts start at level 1 with 0
// experience and the initial gold grant.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.InvalidInput(ctx, 40001, "invalid registration payload")
		return
	}

	username := strings.TrimSpace(req.Username)

	var existing models.User
	if err := a.db.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.InvalidInput(ctx, 40002, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.StorageFailure(ctx, 50001, "failed to check username")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.StorageFailure(ctx, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		RegisterIP:   ctx.ClientIP(),
		Level:        1,
		Gold:         500,
		HitPoints:    100,
		MaxHitPoints: 100,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.StorageFailure(ctx, 50003, "failed to create user")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		utils.StorageFailure(ctx, 50004, "failed to issue token")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{
		"token": token,
		"user":  user,
	})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.InvalidInput(ctx, 40003, "invalid login payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(ctx, 40106, "invalid username or password")
			return
		}
		utils.StorageFailure(ctx, 50005, "failed to load user")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Unauthorized(ctx, 40106, "invalid username or password")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		utils.StorageFailure(ctx, 50004, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenVal, _ := ctx.Get(middleware.ContextTokenKey)
	token, _ := tokenVal.(string)
	if token == "" {
		utils.Unauthorized(ctx, 40101, "no token to revoke")
		return
	}

	expires := time.Now().Add(time.Duration(config.Get().TokenTTLHours) * time.Hour)
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expires)

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated account with today's aggregate snapshot.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Unauthorized(ctx, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx, 40410, "user not found")
			return
		}
		utils.StorageFailure(ctx, 50005, "failed to load user")
		return
	}

	var today models.DailyStat
	_ = a.db.Where("user_id = ? AND date = ?", userID, time.Now().Format(models.DateLayout)).
		First(&today).Error

	utils.Success(ctx, gin.H{
		"user":  user,
		"today": today,
	})
}

func (a *AuthController) issueToken(user models.User) (string, error) {
	ttl := time.Duration(config.Get().TokenTTLHours) * time.Hour
	return utils.GenerateToken(user.ID, user.Username, ttl)
}
