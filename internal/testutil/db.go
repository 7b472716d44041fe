// Package testutil provides shared helpers for database-backed tests. Tests
// run against an in-memory SQLite database with the same models the service
// migrates on Postgres.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planora-dev/planora/db"
	"github.com/planora-dev/planora/internal/models"
)

func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(conn))

	return conn
}

func NewTestUser(t *testing.T, conn *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, conn.Create(&user).Error)

	return user
}
