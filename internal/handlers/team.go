package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamdash/teamdash/db"
	"github.com/teamdash/teamdash/internal/services"
	"github.com/teamdash/teamdash/internal/types"
	"github.com/teamdash/teamdash/internal/utils"
)

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func CreateTeam(ctx *gin.Context) {
	var body CreateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	team, err := services.CreateTeam(db.DB, body.Name, actorID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, teamResponse(team))
}

func ListTeams(ctx *gin.Context) {
	teams, err := services.GetAllTeams(db.DB)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.TeamResponse, 0, len(teams))
	for i := range teams {
		response = append(response, teamResponse(&teams[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTeam(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	team, err := services.GetTeamByID(db.DB, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, teamResponse(team))
}

func UpdateTeam(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var body services.TeamUpdate

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	team, err := services.UpdateTeam(db.DB, id, body)
	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastTeamRefresh(strconv.FormatUint(uint64(id), 10))

	ctx.JSON(http.StatusOK, teamResponse(team))
}

func DeleteTeam(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := services.DeleteTeam(db.DB, id); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastTeamRefresh(strconv.FormatUint(uint64(id), 10))

	ctx.Status(http.StatusNoContent)
}

// ListTeamMembersOpen is the /teams/:id/members listing; unlike the
// membership-gated /team-members variant it only requires authentication.
func ListTeamMembersOpen(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	members, err := services.GetTeamMembers(db.DB, id)
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

func ListUserTeams(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	teams, err := services.GetUserTeams(db.DB, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.TeamResponse, 0, len(teams))
	for i := range teams {
		response = append(response, teamResponse(&teams[i]))
	}

	ctx.JSON(http.StatusOK, response)
}
