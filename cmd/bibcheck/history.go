package main

import (
	"fmt"

	"github.com/matsen/bibcheck/internal/config"
	"github.com/matsen/bibcheck/internal/storage"
	"github.com/spf13/cobra"
)

var (
	historyDBPath string
	historyLimit  int
	historyRunID  int64
)

func init() {
	historyCmd.Flags().StringVar(&historyDBPath, "db", "", "Run-history SQLite database")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.Flags().Int64Var(&historyRunID, "run", 0, "Show per-record results for one run")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List prior batch runs and their outcome totals",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath := historyDBPath
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}
		dbPath = cfg.HistoryPath
	}
	if dbPath == "" {
		exitWithError(ExitConfigError, "no history database configured (set --db or history_path)")
	}

	db, err := storage.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitConfigError, "opening history database: %v", err)
	}
	defer db.Close()

	if historyRunID != 0 {
		results, err := db.RunRecords(historyRunID)
		if err != nil {
			exitWithError(ExitError, "reading run %d: %v", historyRunID, err)
		}
		if humanOutput {
			for _, r := range results {
				fmt.Printf("%-24s %-14s %s\n", r.Key, r.Type, r.Outcome)
			}
			return nil
		}
		return outputJSON(results)
	}

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		exitWithError(ExitError, "listing runs: %v", err)
	}

	if humanOutput {
		for _, r := range runs {
			fmt.Printf("#%d %s %s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.InputPath)
			fmt.Printf("   %d records: %d ok, %d warnings, %d errors\n", r.Total, r.OK, r.Warnings, r.Errors)
		}
		return nil
	}

	if runs == nil {
		runs = []storage.Run{}
	}
	return outputJSON(runs)
}
