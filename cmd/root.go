// Package cmd implements the CLI commands for the programas service using
// Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "programas",
	Short: "programas — catálogo y descarga de programas de cátedra del CRUB",
	Long: `programas serves the course-syllabus catalog of the Centro Regional
Universitario Bariloche: search across the historical archive and the live
academic catalog, and retrieve each program as a PDF document.

Usage:
  programas serve [flags]
  programas export <program-id> [flags]`,
}

// Execute runs the root command.
func Execute() {
	// A missing .env is fine; the environment may be set by other means.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// envOr reads an environment variable with a default.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
