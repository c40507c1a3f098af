package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamdash/teamdash/db"
	"github.com/teamdash/teamdash/internal/services"
	"github.com/teamdash/teamdash/internal/types"
	"github.com/teamdash/teamdash/internal/utils"
)

type AddMemberRequest struct {
	UserID      uint `json:"user_id" binding:"required"`
	IsModerator bool `json:"is_moderator"`
}

func AddTeamMember(ctx *gin.Context) {
	teamID, ok := paramID(ctx, "team_id")
	if !ok {
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	membership, err := services.AddMember(db.DB, teamID, actorID, body.UserID, body.IsModerator)
	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastTeamRefresh(ctx.Param("team_id"))

	ctx.JSON(http.StatusCreated, memberResponse(membership))
}

func RemoveTeamMember(ctx *gin.Context) {
	teamID, ok := paramID(ctx, "team_id")
	if !ok {
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := services.RemoveMember(db.DB, teamID, actorID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastTeamRefresh(ctx.Param("team_id"))

	ctx.Status(http.StatusNoContent)
}

func UpdateTeamMemberRole(ctx *gin.Context) {
	teamID, ok := paramID(ctx, "team_id")
	if !ok {
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	var body services.MemberRoleUpdate

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	membership, err := services.UpdateMemberRole(db.DB, teamID, actorID, userID, body)
	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastTeamRefresh(ctx.Param("team_id"))

	ctx.JSON(http.StatusOK, memberResponse(membership))
}

func ListTeamMembers(ctx *gin.Context) {
	teamID, ok := paramID(ctx, "team_id")
	if !ok {
		return
	}

	requesterID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	members, err := services.GetTeamMembersForRequester(db.DB, teamID, requesterID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.TeamMemberResponse, 0, len(members))
	for i := range members {
		response = append(response, memberResponse(&members[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTeamMember(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	membership, err := services.GetMemberByID(db.DB, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, memberResponse(membership))
}

func ListAllTeamMembers(ctx *gin.Context) {
	members, err := services.GetAllMembers(db.DB)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.TeamMemberResponse, 0, len(members))
	for i := range members {
		response = append(response, memberResponse(&members[i]))
	}

	ctx.JSON(http.StatusOK, response)
}
