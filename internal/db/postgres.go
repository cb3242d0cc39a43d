package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/config"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg config.Config, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	serviceLog.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureInterpretationIndexes(s.db); err != nil {
		s.log.Error("Interpretation index migration failed", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.AssessmentSubmission{},
		&types.InterpretationResult{},
		&types.BaselineSkillMatrix{},
		&types.IdealSkillMatrix{},
		&types.Skill{},
	)
}

// EnsureInterpretationIndexes creates the partial unique index that backs
// job-creation idempotency: at most one non-error interpretation per
// (user, assessment) pair. Error rows are excluded so a failed job can be
// retried under the same assessment id.
func EnsureInterpretationIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_interpretation_result_user_assessment
		ON interpretation_result (user_id, assessment_id)
		WHERE status <> 'error';
	`).Error; err != nil {
		return fmt.Errorf("create idx_interpretation_result_user_assessment: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_interpretation_result_user_status
		ON interpretation_result (user_id, status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_interpretation_result_user_status: %w", err)
	}
	return nil
}
