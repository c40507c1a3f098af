package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/types"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Task{},
	)
	require.NoError(t, err)

	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user, err := CreateUser(db, username, email, "password123", "")
	require.NoError(t, err)

	return user
}

func mustCreateTeam(t *testing.T, db *gorm.DB, name string, creatorID uint) *models.Team {
	t.Helper()

	team, err := CreateTeam(db, name, creatorID)
	require.NoError(t, err)

	return team
}

func opt[T any](v T) types.Optional[T] {
	return types.Optional[T]{Set: true, Valid: true, Value: v}
}

func optNull[T any]() types.Optional[T] {
	return types.Optional[T]{Set: true}
}
