package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/rankbbs/config"
	"github.com/cppla/rankbbs/middleware"
	"github.com/cppla/rankbbs/store"
	"github.com/cppla/rankbbs/utils"
)

// AuthController handles user registration and bearer tokens.
type AuthController struct {
	store *store.Store
	cfg   config.AppConfig
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(s *store.Store, cfg config.AppConfig) *AuthController {
	return &AuthController{store: s, cfg: cfg}
}

type userRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Register adds a user id to the registry.
func (a *AuthController) Register(ctx *gin.Context) {
	var req userRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	userID := normalizeUserID(req.UserID)
	err := a.store.CreateUser(userID)
	switch {
	case errors.Is(err, store.ErrInvalidUser):
		utils.Error(ctx, http.StatusBadRequest, 40011, "user_id is required")
		return
	case errors.Is(err, store.ErrUserExists):
		utils.Error(ctx, http.StatusConflict, 40901, "user already exists")
		return
	case err != nil:
		utils.S().Errorw("register user failed", append(requestLogFields(ctx), "error", err)...)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to register user")
		return
	}

	utils.Created(ctx, gin.H{"user_id": userID})
}

// IssueToken signs a bearer token for a registered user.
func (a *AuthController) IssueToken(ctx *gin.Context) {
	if !a.cfg.AuthEnabled {
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, "authentication is disabled")
		return
	}

	var req userRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	userID := normalizeUserID(req.UserID)
	if !a.store.HasUser(userID) {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	ttl := time.Duration(a.cfg.TokenTTLMinutes) * time.Minute
	token, claims, err := utils.GenerateToken(a.cfg.JWTSecret, userID, ttl)
	if err != nil {
		utils.S().Errorw("sign token failed", append(requestLogFields(ctx), "error", err)...)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":      token,
		"expires_at": claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	})
}

// Logout revokes the presented token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context) {
	claims, ok := middleware.CurrentClaims(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	utils.BlacklistToken(ctx.Request.Context(), claims.ID, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{})
}

// Me echoes the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	utils.Success(ctx, gin.H{"user_id": userID})
}
