package services

import (
	"errors"

	"github.com/teamdash/teamdash/internal/apperrors"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt reads at most 72 bytes of input; GenerateFromPassword rejects longer
// inputs outright. Truncating at the same point in both HashPassword and
// VerifyPassword keeps over-long passwords verifiable.
const maxPasswordBytes = 72

func HashPassword(plaintext string) (string, error) {
	password := []byte(plaintext)
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func VerifyPassword(passwordHash, plaintext string) bool {
	password := []byte(plaintext)
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}

	return bcrypt.CompareHashAndPassword([]byte(passwordHash), password) == nil
}

type UserUpdate struct {
	Username types.Optional[string] `json:"username"`
	Email    types.Optional[string] `json:"email"`
	Password types.Optional[string] `json:"password"`
	FullName types.Optional[string] `json:"full_name"`
}

func CreateUser(db *gorm.DB, username, email, password, fullName string) (*models.User, error) {
	var existing models.User

	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("username already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &user, nil
}

func GetAllUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User

	if err := db.Find(&users).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return users, nil
}

func GetUserByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User

	err := db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &user, nil
}

// GetUserByEmail returns (nil, nil) when no user matches: absence of a match
// is a normal lookup outcome, not an error.
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User

	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &user, nil
}

// GetUserByUsername returns (nil, nil) when no user matches.
func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User

	err := db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &user, nil
}

func UpdateUser(db *gorm.DB, id uint, upd UserUpdate) (*models.User, error) {
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if upd.Username.Set {
		if !upd.Username.Valid || upd.Username.Value == "" {
			return nil, apperrors.Validation("username cannot be empty")
		}

		if upd.Username.Value != user.Username {
			var existing models.User
			err := db.Where("username = ? AND id != ?", upd.Username.Value, id).First(&existing).Error
			if err == nil {
				return nil, apperrors.Conflict("username already taken")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Internal(err)
			}
		}

		updates["username"] = upd.Username.Value
	}

	if upd.Email.Set {
		if !upd.Email.Valid || upd.Email.Value == "" {
			return nil, apperrors.Validation("email cannot be empty")
		}

		if upd.Email.Value != user.Email {
			var existing models.User
			err := db.Where("email = ? AND id != ?", upd.Email.Value, id).First(&existing).Error
			if err == nil {
				return nil, apperrors.Conflict("email already registered")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Internal(err)
			}
		}

		updates["email"] = upd.Email.Value
	}

	if upd.Password.Set {
		if !upd.Password.Valid || upd.Password.Value == "" {
			return nil, apperrors.Validation("password cannot be empty")
		}

		passwordHash, err := HashPassword(upd.Password.Value)
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		updates["password_hash"] = passwordHash
	}

	if upd.FullName.Set {
		// full name is optional; null clears it
		if upd.FullName.Valid {
			updates["full_name"] = upd.FullName.Value
		} else {
			updates["full_name"] = ""
		}
	}

	if len(updates) > 0 {
		if err := db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	if err := db.First(user, id).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return user, nil
}

// DeleteUser removes the user together with their personal tasks and team
// memberships in one transaction.
func DeleteUser(db *gorm.DB, id uint) error {
	user, err := GetUserByID(db, id)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.TeamMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(user).Error
	})

	return apperrors.Wrap(err)
}
