// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/d9705996/ideaportal/internal/db"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open returns a migrated in-memory SQLite database that is closed when the
// test ends. Each call gets its own named shared-cache database.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:ideaportal_test_%d?mode=memory&cache=shared", seq.Add(1))
	gormDB, err := db.OpenSQLite(dsn)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		tb.Fatalf("get sql.DB: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}
