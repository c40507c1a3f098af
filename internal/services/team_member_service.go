package services

import (
	"errors"
	"time"

	"github.com/teamdash/teamdash/internal/apperrors"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/types"
	"gorm.io/gorm"
)

type MemberRoleUpdate struct {
	IsModerator types.Optional[bool] `json:"is_moderator"`
}

// requireModerator is the single authorization gate for every mutation of a
// team's composition: the actor must hold a membership row for the team with
// the moderator flag set.
func requireModerator(db *gorm.DB, teamID, actorID uint, action string) error {
	var membership models.TeamMembership

	err := db.Where("team_id = ? AND user_id = ?", teamID, actorID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Forbidden("only moderators can " + action)
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	if !membership.IsModerator {
		return apperrors.Forbidden("only moderators can " + action)
	}

	return nil
}

func moderatorCount(db *gorm.DB, teamID uint) (int64, error) {
	var count int64

	err := db.Model(&models.TeamMembership{}).
		Where("team_id = ? AND is_moderator = ?", teamID, true).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal(err)
	}

	return count, nil
}

func AddMember(db *gorm.DB, teamID, actorID, userID uint, isModerator bool) (*models.TeamMembership, error) {
	if _, err := GetTeamByID(db, teamID); err != nil {
		return nil, err
	}

	if err := requireModerator(db, teamID, actorID, "add members"); err != nil {
		return nil, err
	}

	var user models.User

	err := db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var existing models.TeamMembership

	err = db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("user already in this team")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	membership := models.TeamMembership{
		TeamID:      teamID,
		UserID:      userID,
		IsModerator: isModerator,
		JoinedAt:    time.Now(),
	}

	if err := db.Create(&membership).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &membership, nil
}

func RemoveMember(db *gorm.DB, teamID, actorID, userID uint) error {
	if err := requireModerator(db, teamID, actorID, "remove members"); err != nil {
		return err
	}

	var membership models.TeamMembership

	err := db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("member not found in this team")
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	if membership.IsModerator {
		count, err := moderatorCount(db, teamID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return apperrors.Validation("team must retain at least one moderator")
		}
	}

	if err := db.Delete(&membership).Error; err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

// UpdateMemberRole sets the target's moderator flag. An absent or null flag
// in the update leaves the role unchanged, distinct from an explicit false.
func UpdateMemberRole(db *gorm.DB, teamID, actorID, userID uint, upd MemberRoleUpdate) (*models.TeamMembership, error) {
	if err := requireModerator(db, teamID, actorID, "change roles"); err != nil {
		return nil, err
	}

	var membership models.TeamMembership

	err := db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("member not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if upd.IsModerator.Set && upd.IsModerator.Valid {
		if membership.IsModerator && !upd.IsModerator.Value {
			count, err := moderatorCount(db, teamID)
			if err != nil {
				return nil, err
			}
			if count <= 1 {
				return nil, apperrors.Validation("team must retain at least one moderator")
			}
		}

		membership.IsModerator = upd.IsModerator.Value

		if err := db.Save(&membership).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	return &membership, nil
}

// GetTeamMembersForRequester lists a team's memberships; read access is gated
// on the requester holding any membership for the team.
func GetTeamMembersForRequester(db *gorm.DB, teamID, requesterID uint) ([]models.TeamMembership, error) {
	var requester models.TeamMembership

	err := db.Where("team_id = ? AND user_id = ?", teamID, requesterID).First(&requester).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Forbidden("access denied: user is not a member of this team")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var members []models.TeamMembership

	if err := db.Where("team_id = ?", teamID).Order("id").Find(&members).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return members, nil
}

func GetMemberByID(db *gorm.DB, id uint) (*models.TeamMembership, error) {
	var membership models.TeamMembership

	err := db.First(&membership, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("team member not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &membership, nil
}

func GetAllMembers(db *gorm.DB) ([]models.TeamMembership, error) {
	var members []models.TeamMembership

	if err := db.Order("id").Find(&members).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return members, nil
}
