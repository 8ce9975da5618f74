// Package setup creates the waitlist table and proves it accepts writes.
package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/AryanCoding77/muscle-ai-waitlist/domain/waitlist"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/models"
	apperrors "github.com/AryanCoding77/muscle-ai-waitlist/pkg/errors"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/migrations"
	"gorm.io/gorm"
)

const (
	ProbeEmail = "test@example.com"
	ProbeName  = "Test User"
)

var ErrTableMissing = errors.New("setup: waitlist table does not exist")

type Options struct {
	// Driver is config.DriverPostgres or config.DriverSQLite.
	Driver        string
	MigrationsDir string
	Logger        *log.Logger
}

// CreateTable applies the SQL migrations on postgres. sqlite has no migration driver here,
// so the models are auto-migrated instead.
func CreateTable(ctx context.Context, db *gorm.DB, opts Options) error {
	switch opts.Driver {
	case "sqlite":
		if err := db.WithContext(ctx).AutoMigrate(models.ModelRegistry...); err != nil {
			return fmt.Errorf("setup: auto-migrate: %w", err)
		}
		return nil
	case "postgres", "":
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("setup: sql handle: %w", err)
		}
		return migrations.Up(ctx, sqlDB, migrations.Config{Dir: opts.MigrationsDir, Logger: opts.Logger})
	default:
		return fmt.Errorf("setup: unsupported driver %q", opts.Driver)
	}
}

// ProbeTable inserts a throwaway entry and deletes it again. A probe row left behind by an
// earlier run is not touched.
func ProbeTable(ctx context.Context, repo waitlist.WaitlistRepository, logger *log.Logger) error {
	_, err := repo.CreateEntry(ctx, &models.WaitlistEntry{Email: ProbeEmail, Name: ProbeName})
	switch {
	case err == nil:
	case apperrors.IsConflict(err):
		logger.Warn("Probe entry already exists; leaving it in place", "email", ProbeEmail)
		return nil
	case apperrors.IsUndefinedTableError(err):
		return fmt.Errorf("%w: %v", ErrTableMissing, err)
	default:
		return fmt.Errorf("setup: test insert: %w", err)
	}

	logger.Info("Test entry inserted", "email", ProbeEmail)

	if err := repo.DeleteByEmail(ctx, ProbeEmail); err != nil {
		return fmt.Errorf("setup: clean up test entry: %w", err)
	}

	logger.Info("Test entry cleaned up")
	return nil
}

// Run creates the table and probes it.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	if err := CreateTable(ctx, db, opts); err != nil {
		return err
	}
	return ProbeTable(ctx, waitlist.NewWaitlistRepository(db), opts.Logger)
}
