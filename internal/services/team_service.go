package services

import (
	"errors"
	"time"

	"github.com/teamdash/teamdash/internal/apperrors"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/types"
	"gorm.io/gorm"
)

type TeamUpdate struct {
	Name types.Optional[string] `json:"name"`
}

// CreateTeam persists the team and its creator's moderator membership as one
// unit: a team never exists without at least one moderator.
func CreateTeam(db *gorm.DB, name string, creatorID uint) (*models.Team, error) {
	var creator models.User

	err := db.First(&creator, creatorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Validation("creator user not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var existing models.Team

	err = db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("team name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	team := models.Team{Name: name}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		membership := models.TeamMembership{
			TeamID:      team.ID,
			UserID:      creatorID,
			IsModerator: true,
			JoinedAt:    time.Now(),
		}

		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(err)
	}

	return &team, nil
}

func GetAllTeams(db *gorm.DB) ([]models.Team, error) {
	var teams []models.Team

	if err := db.Find(&teams).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return teams, nil
}

func GetTeamByID(db *gorm.DB, id uint) (*models.Team, error) {
	var team models.Team

	err := db.First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("team not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &team, nil
}

func UpdateTeam(db *gorm.DB, id uint, upd TeamUpdate) (*models.Team, error) {
	team, err := GetTeamByID(db, id)
	if err != nil {
		return nil, err
	}

	if upd.Name.Set {
		if !upd.Name.Valid || upd.Name.Value == "" {
			return nil, apperrors.Validation("team name cannot be empty")
		}

		if upd.Name.Value != team.Name {
			var existing models.Team
			err := db.Where("name = ? AND id != ?", upd.Name.Value, id).First(&existing).Error
			if err == nil {
				return nil, apperrors.Conflict("team name already taken")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Internal(err)
			}

			team.Name = upd.Name.Value

			if err := db.Save(team).Error; err != nil {
				return nil, apperrors.Internal(err)
			}
		}
	}

	return team, nil
}

// DeleteTeam removes the team and its memberships and detaches (does not
// delete) the team's tasks, all in one transaction.
func DeleteTeam(db *gorm.DB, id uint) error {
	team, err := GetTeamByID(db, id)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMembership{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(team).Error
	})

	return apperrors.Wrap(err)
}

// GetTeamMembers is the team-scoped listing used by the /teams routes; it
// requires only that the team exists. The membership-gated variant lives in
// the member service.
func GetTeamMembers(db *gorm.DB, teamID uint) ([]models.TeamMembership, error) {
	if _, err := GetTeamByID(db, teamID); err != nil {
		return nil, err
	}

	var members []models.TeamMembership

	if err := db.Where("team_id = ?", teamID).Order("id").Find(&members).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return members, nil
}

func GetUserTeams(db *gorm.DB, userID uint) ([]models.Team, error) {
	var teams []models.Team

	err := db.
		Joins("JOIN team_memberships ON team_memberships.team_id = teams.id").
		Where("team_memberships.user_id = ?", userID).
		Find(&teams).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return teams, nil
}
