// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"database/sql"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gl-setup/internal/database"
	"gl-setup/internal/store"
	"gl-setup/models"
)

// New returns a fresh in-memory SQLite database with every table migrated.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("error creating in-memory database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("error getting sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("error migrating database: %v", err)
	}
	return db
}

// NewStore wraps New in a store.DB logging to the test.
func NewStore(t testing.TB) (*store.DB, *gorm.DB) {
	t.Helper()
	db := New(t)
	return store.New(db, sql.LevelDefault, zaptest.NewLogger(t)), db
}

// Create inserts rows, failing the test on error.
func Create(t testing.TB, db *gorm.DB, rows ...any) {
	t.Helper()
	for _, r := range rows {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("error inserting %T: %v", r, err)
		}
	}
}

// Ledger inserts a ledger with the given number.
func Ledger(t testing.TB, db *gorm.DB, number int) {
	t.Helper()
	Create(t, db, &models.Ledger{
		LedgerNumber:   number,
		LedgerName:     "Test ledger",
		BaseCurrency:   "EUR",
		ModificationID: store.NewModificationID(),
	})
}
