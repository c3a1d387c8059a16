// Package cli implements the infacat command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "infacat",
		Short:         "Informatica metadata catalog CLI",
		Long:          "Extracts objects, column lineage, and schema artifacts from PowerMart XML exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	logger := func(cmd *cobra.Command) *slog.Logger {
		return newLogger(cmd.ErrOrStderr(), logLevel)
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd(logger))
	rootCmd.AddCommand(newSchemaCmd(logger))
	rootCmd.AddCommand(newDTDCmd(logger))
	rootCmd.AddCommand(newRunCmd(logger))

	return rootCmd
}

// loggerFunc builds a command-scoped logger after flag parsing.
type loggerFunc func(cmd *cobra.Command) *slog.Logger

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
