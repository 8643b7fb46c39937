package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/crates/internal/formatter"
	"github.com/desertthunder/crates/internal/shared"
	"github.com/urfave/cli/v3"
)

// requestView is the JSON shape of a journal entry.
type requestView struct {
	Sequence   int       `json:"sequence"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// History prints the most recent backend requests, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.requests == nil {
		return fmt.Errorf("%w: enable database.journal in %s", shared.ErrJournalDisabled, r.configPath)
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if cmd.Bool("failed") {
		criteria["failed"] = true
	}
	if method := cmd.String("method"); method != "" {
		criteria["method"] = method
	}

	records, err := r.requests.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]requestView, len(records))
		for i, rec := range records {
			views[i] = requestView{
				Sequence:   rec.Sequence(),
				Method:     rec.Method(),
				Path:       rec.Path(),
				Status:     rec.Status(),
				DurationMS: rec.Duration().Milliseconds(),
				Error:      rec.Error(),
				CreatedAt:  rec.CreatedAt(),
			}
		}
		return r.writeJSON(views, true)
	}

	if len(records) == 0 {
		return r.writePlain("No requests recorded.\n")
	}
	return r.writePlain("%s\n", formatter.RequestsToTable(records))
}

// HistoryPrune deletes journal entries older than --days.
func (r *Runner) HistoryPrune(ctx context.Context, cmd *cli.Command) error {
	if r.requests == nil {
		return fmt.Errorf("%w: enable database.journal in %s", shared.ErrJournalDisabled, r.configPath)
	}

	days := cmd.Int("days")
	if days < 0 {
		return fmt.Errorf("%w: --days must not be negative", shared.ErrInvalidFlag)
	}

	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	n, err := r.requests.Prune(cutoff)
	if err != nil {
		return err
	}

	r.logger.Info("pruned request journal", "removed", n, "before", cutoff.Format(time.DateOnly))
	return r.writePlain("✓ Removed %d requests\n", n)
}
