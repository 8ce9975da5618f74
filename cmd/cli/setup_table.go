package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/config"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/setup"
	"github.com/spf13/cobra"
)

func newSetupTableCmd(logger *log.Logger) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "setup-table",
		Short: "Create the waitlist table and check that it accepts signups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig := config.LoadAppConfig(logger)

			db, err := config.NewDatabase(logger, appConfig.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer config.CloseDatabase(db, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			err = setup.Run(ctx, db, setup.Options{
				Driver:        appConfig.Database.Driver,
				MigrationsDir: appConfig.MigrationsDir,
				Logger:        logger,
			})
			if errors.Is(err, setup.ErrTableMissing) {
				return fmt.Errorf("table creation failed, waitlist table does not exist; apply migrations/*.up.sql manually: %w", err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Waitlist table created and tested successfully. Your waitlist is ready to use!")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "give up after this long")
	return cmd
}
