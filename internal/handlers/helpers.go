package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamdash/teamdash/internal/apperrors"
	"github.com/teamdash/teamdash/internal/logger"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/types"
)

// respondError maps a service error kind to the HTTP status convention:
// validation and conflict 400, forbidden 403, not found 404, everything
// else 500 with the detail kept out of the response.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrConflict):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.L.Errorw("unexpected error", "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
}

func teamResponse(team *models.Team) types.TeamResponse {
	return types.TeamResponse{
		ID:   team.ID,
		Name: team.Name,
	}
}

func memberResponse(membership *models.TeamMembership) types.TeamMemberResponse {
	return types.TeamMemberResponse{
		ID:          membership.ID,
		TeamID:      membership.TeamID,
		UserID:      membership.UserID,
		IsModerator: membership.IsModerator,
		JoinedAt:    membership.JoinedAt,
	}
}

func taskResponse(task *models.Task) types.TaskResponse {
	return types.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		OwnerID:     task.OwnerID,
		TeamID:      task.TeamID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
