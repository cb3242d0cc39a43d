package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/apierr"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/repos"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

const (
	MigrationAddColumns    = "add_columns"
	MigrationExtractSkills = "extract_skills"
	MigrationAll           = "all"

	StepStatusSuccess = "success"
	StepStatusWarning = "warning"
	StepStatusError   = "error"
)

type StepReport struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Total    int    `json:"total,omitempty"`
	Inserted int    `json:"inserted,omitempty"`
}

type MigrationReport struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Steps   []StepReport `json:"steps"`
}

// MigrationService evolves the matrix schema in place. Every step is
// idempotent and independently recoverable: a failed skill extraction never
// rolls back a column that was already added, and re-running the whole thing
// leaves the data bit-identical.
type MigrationService interface {
	Run(ctx context.Context, which string) (*MigrationReport, error)
}

type migrationService struct {
	db     *gorm.DB
	log    *logger.Logger
	ideals repos.IdealMatrixRepo
	skills repos.SkillRepo
}

func NewMigrationService(db *gorm.DB, baseLog *logger.Logger, ideals repos.IdealMatrixRepo, skills repos.SkillRepo) MigrationService {
	return &migrationService{
		db:     db,
		log:    baseLog.With("service", "MigrationService"),
		ideals: ideals,
		skills: skills,
	}
}

type derivedColumn struct {
	name     string
	sqlType  string
	backfill string
}

// The raw competency scale is 1-5; the normalized dashboard scale is 0-100.
// Backfills only touch rows where the derived value is still unset, so a
// value written by a later process is never overwritten and repeated runs
// are no-ops.
var matrixDerivedColumns = []derivedColumn{
	{
		name:     "competency_level_100",
		sqlType:  "integer",
		backfill: `UPDATE baseline_skill_matrix SET competency_level_100 = competency_level * 20 WHERE competency_level_100 IS NULL`,
	},
	{
		name:     "ideal_competency_level",
		sqlType:  "integer",
		backfill: `UPDATE baseline_skill_matrix SET ideal_competency_level = 100 WHERE ideal_competency_level IS NULL`,
	},
	{
		name:    "enhanced_metrics",
		sqlType: "jsonb",
	},
}

func (s *migrationService) Run(ctx context.Context, which string) (*MigrationReport, error) {
	which = strings.TrimSpace(strings.ToLower(which))
	var steps []StepReport
	switch which {
	case MigrationAddColumns:
		steps = append(steps, s.ensureDerivedColumns(ctx))
	case MigrationExtractSkills:
		steps = append(steps, s.extractSkills(ctx))
	case MigrationAll:
		steps = append(steps, s.ensureDerivedColumns(ctx))
		steps = append(steps, s.extractSkills(ctx))
	default:
		return nil, apierr.Validation("unknown_migration", fmt.Errorf("unknown migration %q", which))
	}

	report := &MigrationReport{Status: StepStatusSuccess, Message: "migration complete", Steps: steps}
	for _, step := range steps {
		switch step.Status {
		case StepStatusError:
			report.Status = StepStatusError
			report.Message = "one or more migration steps failed"
		case StepStatusWarning:
			if report.Status == StepStatusSuccess {
				report.Status = StepStatusWarning
				report.Message = "migration completed with warnings"
			}
		}
	}
	return report, nil
}

func (s *migrationService) ensureDerivedColumns(ctx context.Context) StepReport {
	report := StepReport{Name: MigrationAddColumns, Status: StepStatusSuccess}
	var failed []string
	for _, col := range matrixDerivedColumns {
		if err := s.ensureColumn(ctx, &types.BaselineSkillMatrix{}, "baseline_skill_matrix", col.name, col.sqlType); err != nil {
			s.log.Error("Could not ensure derived column", "column", col.name, "error", err)
			failed = append(failed, col.name)
			continue
		}
		if col.backfill == "" {
			continue
		}
		if err := s.db.WithContext(ctx).Exec(col.backfill).Error; err != nil {
			s.log.Error("Backfill failed for derived column", "column", col.name, "error", err)
			failed = append(failed, col.name)
		}
	}
	if len(failed) > 0 {
		report.Status = StepStatusError
		report.Message = fmt.Sprintf("failed columns: %s", strings.Join(failed, ", "))
	} else {
		report.Message = fmt.Sprintf("%d derived columns ensured", len(matrixDerivedColumns))
	}
	return report
}

// ensureColumn tries three tiers, each wrapped so a failure falls through to
// the next rather than aborting the run:
//  1. the dialect's structured existence check plus a plain ADD COLUMN,
//  2. a raw information_schema probe plus ADD COLUMN IF NOT EXISTS,
//  3. an unconditional ADD COLUMN IF NOT EXISTS.
func (s *migrationService) ensureColumn(ctx context.Context, model interface{}, table, column, sqlType string) error {
	tx := s.db.WithContext(ctx)

	// Tier 1: structured check.
	if tx.Migrator().HasColumn(model, column) {
		return nil
	}
	err := tx.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, sqlType)).Error
	if err == nil {
		return nil
	}
	s.log.Warn("Structured column add failed, trying information_schema probe",
		"table", table, "column", column, "error", err)

	// Tier 2: raw information_schema probe.
	var count int64
	err = tx.Raw(
		`SELECT COUNT(*) FROM information_schema.columns WHERE table_name = ? AND column_name = ?`,
		table, column,
	).Scan(&count).Error
	if err == nil {
		if count > 0 {
			return nil
		}
		err = tx.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s`, table, column, sqlType)).Error
		if err == nil {
			return nil
		}
	}
	s.log.Warn("information_schema probe failed, trying unconditional DDL",
		"table", table, "column", column, "error", err)

	// Tier 3: unconditional idempotent DDL.
	return tx.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s`, table, column, sqlType)).Error
}

// extractSkills flattens the most recent ideal matrix into taxonomy entries.
// Associated metrics and key indicators stay on the skill they describe and
// are never promoted to top-level entries. A missing ideal matrix is a
// zero-effect success reported as a warning, not a failure.
func (s *migrationService) extractSkills(ctx context.Context) StepReport {
	report := StepReport{Name: MigrationExtractSkills, Status: StepStatusSuccess}

	ideal, err := s.ideals.GetLatest(ctx, s.db)
	if err != nil {
		report.Status = StepStatusError
		report.Message = fmt.Sprintf("load ideal matrix: %v", err)
		return report
	}
	if ideal == nil {
		report.Status = StepStatusWarning
		report.Message = "no ideal_skill_matrix found, nothing to extract"
		return report
	}

	doc, err := ideal.Doc()
	if err != nil {
		report.Status = StepStatusError
		report.Message = fmt.Sprintf("parse ideal matrix: %v", err)
		return report
	}

	var candidates []*types.Skill
	for _, ts := range doc.TechnicalSkills {
		name := strings.TrimSpace(ts.Name)
		if name == "" {
			continue
		}
		candidates = append(candidates, &types.Skill{
			Name:        name,
			Description: ts.Description,
			Category:    types.SkillCategoryTechnical,
		})
	}
	for _, ss := range doc.SoftSkills {
		name := strings.TrimSpace(ss.Name)
		if name == "" {
			continue
		}
		candidates = append(candidates, &types.Skill{
			Name:        name,
			Description: ss.Description,
			Category:    types.SkillCategorySoft,
		})
	}
	report.Total = len(candidates)

	existing, err := s.skills.ListNames(ctx, s.db)
	if err != nil {
		report.Status = StepStatusError
		report.Message = fmt.Sprintf("list existing skills: %v", err)
		return report
	}
	seen := make(map[string]bool, len(existing))
	for _, name := range existing {
		seen[strings.TrimSpace(name)] = true
	}

	var fresh []*types.Skill
	for _, cand := range candidates {
		if seen[cand.Name] {
			continue
		}
		seen[cand.Name] = true
		fresh = append(fresh, cand)
	}

	if len(fresh) > 0 {
		if err := s.skills.Create(ctx, s.db, fresh); err != nil {
			report.Status = StepStatusError
			report.Message = fmt.Sprintf("insert skills: %v", err)
			return report
		}
	}
	report.Inserted = len(fresh)
	report.Message = fmt.Sprintf("considered %d skills, inserted %d", report.Total, report.Inserted)
	s.log.Info("Skill extraction finished", "total", report.Total, "inserted", report.Inserted)
	return report
}
