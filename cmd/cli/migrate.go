package main

import (
	"context"
	"fmt"
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/config"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd(logger *log.Logger) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply (default) or revert the SQL migrations on postgres",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(migrations.DirectionUp), string(migrations.DirectionDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := migrations.DirectionUp
			if len(args) == 1 {
				direction = migrations.Direction(args[0])
			}

			appConfig := config.LoadAppConfig(logger)
			if appConfig.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate only supports %s; use setup-table for %s", config.DriverPostgres, appConfig.Database.Driver)
			}

			db, err := config.NewDatabase(logger, appConfig.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer config.CloseDatabase(db, logger)

			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("get SQL DB instance: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := migrations.Run(ctx, sqlDB, migrations.Config{Dir: appConfig.MigrationsDir, Logger: logger}, direction); err != nil {
				return err
			}

			logger.Info("Database migrations completed", "direction", string(direction))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "give up after this long")
	return cmd
}
