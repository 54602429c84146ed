package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"chatdesk/internal/models"
)

func TestInit_MigratesStoreTables(t *testing.T) {
	db, err := Init(Config{Path: filepath.Join(t.TempDir(), "chatdesk.db"), LogLevel: logger.Silent})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.True(t, db.Migrator().HasTable(&models.Message{}))
	assert.True(t, db.Migrator().HasTable(&models.UserSettings{}))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
