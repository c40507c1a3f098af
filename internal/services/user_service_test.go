package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdash/teamdash/internal/apperrors"
	"github.com/teamdash/teamdash/internal/models"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := newTestDB(t)

	mustCreateUser(t, db, "alice", "a@x.com")

	_, err := CreateUser(db, "alice", "other@x.com", "password123", "")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	mustCreateUser(t, db, "alice", "a@x.com")

	_, err := CreateUser(db, "bob", "a@x.com", "password123", "")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := newTestDB(t)

	user, err := CreateUser(db, "alice", "a@x.com", "s3cretpass", "Alice A")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.True(t, VerifyPassword(user.PasswordHash, "s3cretpass"))
	assert.False(t, VerifyPassword(user.PasswordHash, "wrongpass"))
}

func TestPasswordTruncation(t *testing.T) {
	// bcrypt input is cut at 72 bytes; everything beyond that is ignored on
	// both the hash and the verify side.
	long := strings.Repeat("a", 100)

	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, long))
	assert.True(t, VerifyPassword(hash, strings.Repeat("a", 72)))
	assert.False(t, VerifyPassword(hash, strings.Repeat("a", 71)))
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)

	user := mustCreateUser(t, db, "alice", "a@x.com")

	found, err := GetUserByID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = GetUserByID(db, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLookupByFieldReturnsNilWhenAbsent(t *testing.T) {
	db := newTestDB(t)

	user, err := GetUserByEmail(db, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = GetUserByUsername(db, "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)

	user := mustCreateUser(t, db, "alice", "a@x.com")
	mustCreateUser(t, db, "bob", "b@x.com")

	t.Run("not found", func(t *testing.T) {
		_, err := UpdateUser(db, 999, UserUpdate{Username: opt("carol")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("username collision", func(t *testing.T) {
		_, err := UpdateUser(db, user.ID, UserUpdate{Username: opt("bob")})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("email collision", func(t *testing.T) {
		_, err := UpdateUser(db, user.ID, UserUpdate{Email: opt("b@x.com")})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		updated, err := UpdateUser(db, user.ID, UserUpdate{FullName: opt("Alice A")})
		require.NoError(t, err)
		assert.Equal(t, "alice", updated.Username)
		assert.Equal(t, "a@x.com", updated.Email)
		assert.Equal(t, "Alice A", updated.FullName)
	})

	t.Run("null clears full name", func(t *testing.T) {
		updated, err := UpdateUser(db, user.ID, UserUpdate{FullName: optNull[string]()})
		require.NoError(t, err)
		assert.Empty(t, updated.FullName)
	})

	t.Run("null username rejected", func(t *testing.T) {
		_, err := UpdateUser(db, user.ID, UserUpdate{Username: optNull[string]()})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("password rehash", func(t *testing.T) {
		before, err := GetUserByID(db, user.ID)
		require.NoError(t, err)

		updated, err := UpdateUser(db, user.ID, UserUpdate{Password: opt("newpassword")})
		require.NoError(t, err)
		assert.NotEqual(t, before.PasswordHash, updated.PasswordHash)
		assert.True(t, VerifyPassword(updated.PasswordHash, "newpassword"))
	})
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)

	user := mustCreateUser(t, db, "alice", "a@x.com")
	mustCreateTeam(t, db, "Eng", user.ID)

	_, err := CreateTask(db, TaskCreate{Title: "personal", OwnerID: &user.ID})
	require.NoError(t, err)

	require.NoError(t, DeleteUser(db, user.ID))

	_, err = GetUserByID(db, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var taskCount int64
	require.NoError(t, db.Model(&models.Task{}).Where("owner_id = ?", user.ID).Count(&taskCount).Error)
	assert.Zero(t, taskCount)

	var memberCount int64
	require.NoError(t, db.Model(&models.TeamMembership{}).Where("user_id = ?", user.ID).Count(&memberCount).Error)
	assert.Zero(t, memberCount)
}

func TestDeleteUserNotFound(t *testing.T) {
	db := newTestDB(t)

	assert.ErrorIs(t, DeleteUser(db, 999), apperrors.ErrNotFound)
}
