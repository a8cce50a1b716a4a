package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

const tokenDuration = 24 * time.Hour

// AuthController handles local account registration and session tokens.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{users: services.NewUserService(db)}
}

// Register creates a local account and returns a session token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=2,max=64"`
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	user, err := a.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(ctx, 40011, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"user": user, "token": token})
}

// Login verifies credentials and returns a session token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		// indistinguishable message for unknown user and wrong password
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"user": user, "token": token})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 {
		token := strings.TrimSpace(parts[1])
		if claims, err := utils.ParseToken(token); err == nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	user, err := a.users.GetByID(userID)
	if err != nil {
		respondServiceError(ctx, 40012, err)
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// GetUserPublic returns the public profile for a username.
func (a *AuthController) GetUserPublic(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	user, err := a.users.GetByUsername(username)
	if err != nil {
		respondServiceError(ctx, 40013, err)
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// DeleteMe removes the authenticated account and everything owned by it.
func (a *AuthController) DeleteMe(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	if err := a.users.Delete(userID); err != nil {
		respondServiceError(ctx, 50012, err)
		return
	}
	// the account's posts just left every feed
	utils.InvalidateByPrefix(feedCachePrefix)
	utils.Success(ctx, gin.H{"message": "account deleted"})
}
