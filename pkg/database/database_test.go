package database

import (
	"path/filepath"
	"testing"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBSeedsDemoAccounts(t *testing.T) {
	cfg := &config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "conceptcatch.db")}

	db, err := InitDB(cfg)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)

	var teacher model.User
	require.NoError(t, db.Where("email = ?", "sarah@conceptcatch.com").First(&teacher).Error)
	assert.Equal(t, model.Teacher, teacher.Role)
	assert.NotEmpty(t, teacher.Password)

	// Reopening an already-seeded database does not duplicate accounts.
	db2, err := InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, db2.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}
