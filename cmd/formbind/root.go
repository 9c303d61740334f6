package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/internal/prompt"
)

// app carries the collaborators commands share. Tests replace the driver and
// the environment.
type app struct {
	driver  prompt.Driver
	environ map[string]string
	logger  *slog.Logger
}

func newApp() *app {
	return &app{driver: prompt.NewSurveyDriver(), logger: logging.NewNop()}
}

func newRootCmd(a *app) *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:           "formbind",
		Short:         "Bind, validate and apply schema driven form submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = logging.NewWriter(cmd.ErrOrStderr(), logging.ParseLevel(level))
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(a),
		newFieldsCmd(a),
		newFillCmd(a),
	)
	return root
}
