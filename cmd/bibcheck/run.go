package main

import (
	"errors"

	"github.com/matsen/bibcheck/internal/config"
	"github.com/matsen/bibcheck/internal/pipeline"
	"github.com/matsen/bibcheck/internal/schema"
	"github.com/matsen/bibcheck/internal/storage"
	"github.com/spf13/cobra"
)

var (
	runAuditPath   string
	runHistoryPath string
	runRulesFile   string
	runQuiet       bool
)

func init() {
	runCmd.Flags().StringVar(&runAuditPath, "audit", "", "Audit workbook path (default report.xlsx)")
	runCmd.Flags().StringVar(&runHistoryPath, "db", "", "Run-history SQLite database (history disabled if unset)")
	runCmd.Flags().StringVar(&runRulesFile, "rules", "", "Extra schema rules YAML file to merge")
	runCmd.Flags().BoolVar(&runQuiet, "quiet", false, "Suppress per-record progress lines")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <input.bib> <output.bib>",
	Short: "Validate a database and write its canonical rewrite",
	Long: `Validate every record of a BibTeX database.

Each record is checked against its type's schema rules, classified as
ok, warning, or error, and rewritten in canonical field order with null
placeholders for anything missing. All canonical rewrites land in the
output file; every record also gets a flagged row in the audit workbook.

Usage:
  bibcheck run references.bib canonical.bib
  bibcheck run references.bib canonical.bib --audit review.xlsx --db runs.db`,
	Args: cobra.ExactArgs(2),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	auditPath := cfg.AuditPath
	if runAuditPath != "" {
		auditPath = runAuditPath
	}
	historyPath := cfg.HistoryPath
	if runHistoryPath != "" {
		historyPath = runHistoryPath
	}
	rulesFile := cfg.RulesFile
	if runRulesFile != "" {
		rulesFile = runRulesFile
	}

	registry := schema.NewRegistry()
	if rulesFile != "" {
		if err := registry.LoadRuleFile(rulesFile); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}

	var history *storage.DB
	if historyPath != "" {
		history, err = storage.OpenDB(historyPath)
		if err != nil {
			exitWithError(ExitConfigError, "opening history database: %v", err)
		}
		defer history.Close()
	}

	opts := pipeline.Options{
		Registry:  registry,
		AuditPath: auditPath,
		History:   history,
		Out:       cmd.OutOrStdout(),
		Quiet:     runQuiet,
	}

	_, err = pipeline.Run(args[0], args[1], opts)
	if errors.Is(err, pipeline.ErrNoRecords) {
		return nil // Already reported; nothing to write
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	return nil
}
