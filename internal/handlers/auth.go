package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teamdash/teamdash/db"
	"github.com/teamdash/teamdash/internal/auth"
	"github.com/teamdash/teamdash/internal/logger"
	"github.com/teamdash/teamdash/internal/services"
	"github.com/teamdash/teamdash/internal/utils"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
}

type LoginRequest struct {
	// username or email
	Identity string `json:"identity" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	user, err := services.CreateUser(db.DB, body.Username, body.Email, body.Password, body.FullName)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Username)
	if err != nil {
		logger.L.Errorw("failed to generate token", "user_id", user.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	identity := strings.TrimSpace(body.Identity)

	user, err := services.GetUserByUsername(db.DB, identity)
	if err == nil && user == nil {
		user, err = services.GetUserByEmail(db.DB, strings.ToLower(identity))
	}
	if err != nil {
		respondError(ctx, err)
		return
	}

	if user == nil || !services.VerifyPassword(user.PasswordHash, body.Password) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Username)
	if err != nil {
		logger.L.Errorw("failed to generate token", "user_id", user.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := services.GetUserByID(db.DB, currentUser.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
