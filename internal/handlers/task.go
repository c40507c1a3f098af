package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamdash/teamdash/db"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/services"
	"github.com/teamdash/teamdash/internal/types"
)

func CreateTask(ctx *gin.Context) {
	var body services.TaskCreate

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := services.CreateTask(db.DB, body)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if task.TeamID != nil {
		BroadcastTeamRefresh(strconv.FormatUint(uint64(*task.TeamID), 10))
	}

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func ListTasks(ctx *gin.Context) {
	tasks, err := services.GetAllTasks(db.DB)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func GetTask(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	task, err := services.GetTaskByID(db.DB, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var body services.TaskUpdate

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := services.UpdateTask(db.DB, id, body)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if task.TeamID != nil {
		BroadcastTeamRefresh(strconv.FormatUint(uint64(*task.TeamID), 10))
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	task, err := services.GetTaskByID(db.DB, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := services.DeleteTask(db.DB, id); err != nil {
		respondError(ctx, err)
		return
	}

	if task.TeamID != nil {
		BroadcastTeamRefresh(strconv.FormatUint(uint64(*task.TeamID), 10))
	}

	ctx.Status(http.StatusNoContent)
}

func ListTasksByUser(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	tasks, err := services.GetTasksByOwner(db.DB, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func ListTasksByTeam(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	tasks, err := services.GetTasksByTeam(db.DB, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func ListTasksByStatus(ctx *gin.Context) {
	tasks, err := services.GetTasksByStatus(db.DB, ctx.Param("status"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func taskResponses(tasks []models.Task) []types.TaskResponse {
	response := make([]types.TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, taskResponse(&tasks[i]))
	}
	return response
}
