package services

import (
	"errors"
	"time"

	"github.com/teamdash/teamdash/internal/apperrors"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/types"
	"gorm.io/gorm"
)

type TaskCreate struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	OwnerID     *uint      `json:"owner_id"`
	TeamID      *uint      `json:"team_id"`
}

type TaskUpdate struct {
	Title       types.Optional[string]    `json:"title"`
	Description types.Optional[string]    `json:"description"`
	Status      types.Optional[string]    `json:"status"`
	DueDate     types.Optional[time.Time] `json:"due_date"`
	OwnerID     types.Optional[uint]      `json:"owner_id"`
	TeamID      types.Optional[uint]      `json:"team_id"`
}

// checkTaskOwnership enforces the exclusivity rule: a task belongs to exactly
// one of a user or a team. The same rule applies on create and on update.
func checkTaskOwnership(ownerID, teamID *uint) error {
	if ownerID == nil && teamID == nil {
		return apperrors.Validation("task must have either an owner or a team")
	}
	if ownerID != nil && teamID != nil {
		return apperrors.Validation("task cannot have both owner and team")
	}
	return nil
}

func CreateTask(db *gorm.DB, in TaskCreate) (*models.Task, error) {
	if err := checkTaskOwnership(in.OwnerID, in.TeamID); err != nil {
		return nil, err
	}

	if in.OwnerID != nil {
		var owner models.User
		err := db.First(&owner, *in.OwnerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("task owner not found")
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	if in.TeamID != nil {
		var team models.Team
		err := db.First(&team, *in.TeamID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("team not found")
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	status := in.Status
	if status == "" {
		status = "pending"
	}

	task := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
		OwnerID:     in.OwnerID,
		TeamID:      in.TeamID,
	}

	if err := db.Create(&task).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &task, nil
}

func GetAllTasks(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task

	if err := db.Find(&tasks).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return tasks, nil
}

func GetTaskByID(db *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task

	err := db.First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("task not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &task, nil
}

func UpdateTask(db *gorm.DB, id uint, upd TaskUpdate) (*models.Task, error) {
	task, err := GetTaskByID(db, id)
	if err != nil {
		return nil, err
	}

	if upd.OwnerID.Set || upd.TeamID.Set {
		newOwnerID := task.OwnerID
		if upd.OwnerID.Set {
			newOwnerID = nil
			if upd.OwnerID.Valid {
				newOwnerID = &upd.OwnerID.Value
			}
		}

		newTeamID := task.TeamID
		if upd.TeamID.Set {
			newTeamID = nil
			if upd.TeamID.Valid {
				newTeamID = &upd.TeamID.Value
			}
		}

		if err := checkTaskOwnership(newOwnerID, newTeamID); err != nil {
			return nil, err
		}

		if upd.OwnerID.Set && upd.OwnerID.Valid {
			var owner models.User
			err := db.First(&owner, upd.OwnerID.Value).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("task owner not found")
			}
			if err != nil {
				return nil, apperrors.Internal(err)
			}
		}

		if upd.TeamID.Set && upd.TeamID.Valid {
			var team models.Team
			err := db.First(&team, upd.TeamID.Value).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("team not found")
			}
			if err != nil {
				return nil, apperrors.Internal(err)
			}
		}

		task.OwnerID = newOwnerID
		task.TeamID = newTeamID
	}

	if upd.Title.Set {
		if !upd.Title.Valid || upd.Title.Value == "" {
			return nil, apperrors.Validation("title cannot be empty")
		}
		task.Title = upd.Title.Value
	}

	if upd.Status.Set {
		if !upd.Status.Valid || upd.Status.Value == "" {
			return nil, apperrors.Validation("status cannot be empty")
		}
		task.Status = upd.Status.Value
	}

	// description and due date are optional; null clears them
	if upd.Description.Set {
		if upd.Description.Valid {
			task.Description = upd.Description.Value
		} else {
			task.Description = ""
		}
	}

	if upd.DueDate.Set {
		task.DueDate = nil
		if upd.DueDate.Valid {
			task.DueDate = &upd.DueDate.Value
		}
	}

	// Save writes every column, so cleared pointer fields are persisted as NULL.
	if err := db.Save(task).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return task, nil
}

func DeleteTask(db *gorm.DB, id uint) error {
	task, err := GetTaskByID(db, id)
	if err != nil {
		return err
	}

	if err := db.Delete(task).Error; err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

func GetTasksByOwner(db *gorm.DB, ownerID uint) ([]models.Task, error) {
	var tasks []models.Task

	if err := db.Where("owner_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return tasks, nil
}

func GetTasksByTeam(db *gorm.DB, teamID uint) ([]models.Task, error) {
	var tasks []models.Task

	if err := db.Where("team_id = ?", teamID).Find(&tasks).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return tasks, nil
}

func GetTasksByStatus(db *gorm.DB, status string) ([]models.Task, error) {
	var tasks []models.Task

	if err := db.Where("status = ?", status).Find(&tasks).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return tasks, nil
}
