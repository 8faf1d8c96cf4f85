package db_test

import (
	"path/filepath"
	"testing"

	"github.com/d9705996/ideaportal/internal/db"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_SingleConnectionWithForeignKeys(t *testing.T) {
	gormDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	// Every query lands on the connection the pragma was set on.
	for i := 0; i < 3; i++ {
		var fk int
		require.NoError(t, gormDB.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
		assert.Equal(t, 1, fk)
	}

	assert.True(t, gormDB.Migrator().HasTable(&model.Idea{}))
}
