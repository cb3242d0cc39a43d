package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/db"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
)

var (
	dbOnce sync.Once
	shared *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns the shared test database: postgres when TEST_POSTGRES_DSN is
// set, otherwise an in-memory sqlite database with an equivalent schema.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dbOnce.Do(func() {
		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			shared, dbErr = openPostgres(dsn)
			return
		}
		shared, dbErr = openSQLite()
	})
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return shared
}

// FreshDB returns an isolated in-memory sqlite database. Use it for tests
// that mutate schema (the migration runner) so added columns do not leak
// between tests.
func FreshDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	gdb, err := openSQLite()
	if err != nil {
		tb.Fatalf("failed to init fresh test db: %v", err)
	}
	return gdb
}

func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func openPostgres(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		return nil, err
	}
	if err := db.EnsureInterpretationIndexes(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// openSQLite builds the schema by hand: the production models lean on
// uuid_generate_v4 server-side defaults which sqlite cannot express, so
// tests always assign ids explicitly.
func openSQLite() (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS assessment_submission (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			raw_answers text,
			created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS interpretation_result (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			assessment_id text NOT NULL,
			status text NOT NULL DEFAULT 'pending',
			payload text,
			created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS baseline_skill_matrix (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			legacy_correlation_id text,
			status text NOT NULL DEFAULT 'pending',
			skill_matrix text,
			competency_level integer,
			ideal_skill_matrix_id text NOT NULL,
			analysis_started_at datetime,
			analysis_completed_at datetime,
			gap_analysis_dashboard text,
			created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ideal_skill_matrix (
			id text PRIMARY KEY,
			role_name text NOT NULL,
			skill_matrix text,
			created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS skill (
			id text PRIMARY KEY,
			name text NOT NULL UNIQUE,
			description text,
			category text NOT NULL,
			created_at datetime NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range ddl {
		if err := gdb.Exec(stmt).Error; err != nil {
			return nil, err
		}
	}
	if err := db.EnsureInterpretationIndexes(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}
