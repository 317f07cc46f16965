package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/order-tracker/internal/model"
)

type runRow struct {
	ID         string    `db:"id"`
	Profile    string    `db:"profile"`
	Folder     string    `db:"folder"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Orders     int       `db:"orders"`
	Codes      int       `db:"codes"`
	Stats      string    `db:"stats"`
}

// RecordRun stores the outcome of one run. If the run has no ID, a new
// UUID is generated. The ID is returned.
func (s *SQLiteStore) RecordRun(ctx context.Context, run model.SyncRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return "", fmt.Errorf("marshaling stats for run %s: %w", run.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_runs (
			id, profile, folder, started_at, finished_at, orders, codes, stats
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Profile, run.Folder,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Orders, run.Codes, string(stats),
	)
	if err != nil {
		return "", fmt.Errorf("recording run %s: %w", run.ID, err)
	}

	return run.ID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, profile, folder, started_at, finished_at, orders, codes, stats
		FROM sync_runs ORDER BY started_at DESC LIMIT ?`, limit,
	); err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	runs := make([]model.SyncRun, 0, len(rows))
	for _, r := range rows {
		run := model.SyncRun{
			ID:         r.ID,
			Profile:    r.Profile,
			Folder:     r.Folder,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Orders:     r.Orders,
			Codes:      r.Codes,
		}
		if err := json.Unmarshal([]byte(r.Stats), &run.Stats); err != nil {
			return nil, fmt.Errorf("parsing stats of run %s: %w", r.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
