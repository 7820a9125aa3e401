// Package main implements the tp CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tp",
	Short: "Taskpad - a to-do list with deadline reminders",
	Long: `Taskpad keeps a list of named tasks with optional deadlines and notes.

Tasks whose deadline is a few minutes away trigger a one-time reminder while
"tp remind" or "tp serve" is running.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

var (
	rootStateDir string
	rootLogLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootStateDir, "state-dir", "", "State directory (overrides storage.dir)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}
