package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/internal/form"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/constants"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/utils"
	"github.com/spf13/cobra"
)

var errJoinFailed = errors.New("join failed")

func newJoinCmd(logger *log.Logger) *cobra.Command {
	var (
		name    string
		email   string
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join the waitlist through a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form.New()
			f.Mount()
			if err := f.SetName(name); err != nil {
				return err
			}
			if err := f.SetEmail(email); err != nil {
				return err
			}

			submitter := form.NewHTTPSubmitter(baseURL, &http.Client{Timeout: timeout})
			if err := f.Submit(cmd.Context(), submitter); err != nil {
				return fmt.Errorf("--name and --email are required: %w", err)
			}

			for _, n := range f.TakeNotifications() {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", n.Kind, n.Message)
			}

			if f.Phase() == form.PhaseFailed {
				logger.Debug("Join failed", "reason", f.Failure())
				return errJoinFailed
			}
			return nil
		},
	}

	defaultURL := "http://localhost:" + utils.GetEnvTrimmedOrDefault("PORT", constants.DefaultAppPort)

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email")
	cmd.Flags().StringVar(&baseURL, "url", defaultURL, "base URL of the waitlist server")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout")

	return cmd
}
