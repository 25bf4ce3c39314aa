// Package testsupport provides shared helpers for package tests: in-memory
// databases with the full schema migrated, a quiet logger, and record
// factories.
package testsupport

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vihorki/internal/records"
	"vihorki/internal/reports"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// visitIDSeq hands out unique visit identifiers across a test binary run.
var visitIDSeq atomic.Int64

// allModels returns all persisted models for migration
func allModels() []any {
	return []any{
		&records.Visit{},
		&records.Hit{},
		&reports.SavedReport{},
	}
}

// GetLogger returns a logger that discards output, keeping test runs quiet.
func GetLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupTestDB creates a test database with all models migrated. Uses a named
// in-memory database with cache=shared to allow multiple connections to share
// the same database within a test. Caches the database by test name so
// multiple calls within the same test return the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()

	// Use root test name for caching to handle closure issues where
	// setup functions capture the outer t while t.Run has subtest t
	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CreateTestVisit persists the given visit, assigning a unique VisitID and a
// current timestamp when they are zero.
func CreateTestVisit(t *testing.T, db *gorm.DB, visit records.Visit) records.Visit {
	t.Helper()

	if visit.VisitID == 0 {
		visit.VisitID = visitIDSeq.Add(1)
	}
	if visit.DateTime.IsZero() {
		visit.DateTime = time.Now().UTC().Truncate(time.Second)
	}

	if err := db.Create(&visit).Error; err != nil {
		t.Fatalf("testsupport: failed to create test visit: %v", err)
	}
	return visit
}

// CreateTestHit persists the given hit, defaulting its timestamp to now.
func CreateTestHit(t *testing.T, db *gorm.DB, hit records.Hit) records.Hit {
	t.Helper()

	if hit.DatetimeHit.IsZero() {
		hit.DatetimeHit = time.Now().UTC().Truncate(time.Second)
	}

	if err := db.Create(&hit).Error; err != nil {
		t.Fatalf("testsupport: failed to create test hit: %v", err)
	}
	return hit
}
