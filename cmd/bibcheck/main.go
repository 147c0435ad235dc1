// Package main provides the bibcheck CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// Local .env files may carry BIBCHECK_* overrides; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibcheck",
	Short: "Validate and normalize a BibTeX database",
	Long: `bibcheck validates every record of a BibTeX database against
per-type schema rules, writes a normalized canonical rewrite of the whole
database, and produces an auditable spreadsheet classifying each record
as accepted, suspect, or rejected.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
