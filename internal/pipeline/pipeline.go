// Package pipeline drives a full validation run over a bibliographic
// database: parse, evaluate every record in input order, feed the audit
// sink, and write the consolidated canonical database.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/matsen/bibcheck/internal/audit"
	"github.com/matsen/bibcheck/internal/bibtex"
	"github.com/matsen/bibcheck/internal/schema"
	"github.com/matsen/bibcheck/internal/storage"
	"github.com/matsen/bibcheck/internal/validate"
)

// ErrNoRecords is returned when the input parses to zero records. The run
// stops without creating any output artifacts.
var ErrNoRecords = errors.New("no records found")

// Options configures a batch run.
type Options struct {
	// Registry supplies the validation rules. Required.
	Registry *schema.Registry
	// AuditPath is where the audit workbook is written. Required.
	AuditPath string
	// History, if non-nil, records the run and its per-record results.
	History *storage.DB
	// Out receives progress and summary lines. Defaults to os.Stdout.
	Out io.Writer
	// Quiet suppresses the per-record progress lines.
	Quiet bool
}

// Summary totals the outcomes of one run.
type Summary struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Run validates the database at inputPath and writes the canonical rewrite
// of every record to outputPath, one blank line between records. Invalid
// records never abort the batch; they are classified, audited, and still
// rendered on a best-effort basis. Only an unreadable input aborts.
func Run(inputPath, outputPath string, opts Options) (*Summary, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	records, err := bibtex.ParseFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", inputPath, err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "no records found")
		return nil, ErrNoRecords
	}

	sink, err := audit.Open(opts.AuditPath)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}

	evaluator := validate.NewEvaluator(opts.Registry)
	summary := &Summary{}
	started := time.Now()

	var canon []string
	var results []storage.RecordResult

	for _, raw := range records {
		outcome, canonical := evaluator.Evaluate(raw)
		summary.count(outcome.Level)

		if !opts.Quiet {
			fmt.Fprintf(out, "%s: %s\n", raw.Key, outcome)
		}

		if err := sink.Append(raw.Render(), canonical.Render(), outcome.String()); err != nil {
			return nil, fmt.Errorf("appending audit row: %w", err)
		}

		// Undefined types have no canonical form to contribute.
		if !canonical.Empty() {
			canon = append(canon, canonical.Render())
		}

		results = append(results, storage.RecordResult{
			Key:     raw.Key,
			Type:    raw.Type,
			Outcome: outcome.String(),
		})
	}

	if err := sink.Close(); err != nil {
		return nil, err
	}

	if err := os.WriteFile(outputPath, []byte(strings.Join(canon, "\n\n")+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing canonical database: %w", err)
	}

	if opts.History != nil {
		run := storage.Run{
			StartedAt: started,
			InputPath: inputPath,
			Total:     summary.Total,
			OK:        summary.OK,
			Warnings:  summary.Warnings,
			Errors:    summary.Errors,
		}
		if _, err := opts.History.RecordRun(run, results); err != nil {
			return nil, fmt.Errorf("recording run history: %w", err)
		}
	}

	fmt.Fprintf(out, "%d records found, canonical database written to %s\n", summary.Total, outputPath)
	return summary, nil
}

func (s *Summary) count(level validate.Level) {
	s.Total++
	switch level {
	case validate.LevelOk:
		s.OK++
	case validate.LevelWarning:
		s.Warnings++
	case validate.LevelError:
		s.Errors++
	}
}
