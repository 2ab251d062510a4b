// Package store persists calibration run history to SQLite.
//
// One row per run in `runs` plus one row per solved segment in `segments`.
// Runs older than the retention window are pruned when the store opens.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/hazard"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at    DATETIME NOT NULL,
    recovery_rate REAL     NOT NULL,
    frequency     INTEGER  NOT NULL,
    notional      REAL     NOT NULL
);

CREATE TABLE IF NOT EXISTS segments (
    run_id       INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq          INTEGER NOT NULL,
    seg_start    REAL    NOT NULL,
    seg_end      REAL    NOT NULL,
    hazard_rate  REAL    NOT NULL,
    residual_bps REAL    NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`

const retentionRuns = 90 * 24 * time.Hour

// RunMeta captures the conventions a run was calibrated under.
type RunMeta struct {
	CreatedAt    time.Time
	RecoveryRate float64
	Frequency    int
	Notional     float64
}

// Run is a persisted calibration result.
type Run struct {
	ID        int64
	Meta      RunMeta
	Segments  []hazard.Segment
	Residuals []float64 // bps, parallel to Segments
}

// SQLiteStore is a pure-Go SQLite-backed run store.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the database, applies the schema and prunes
// runs past the retention window.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: apply schema: %w", err)
	}
	cutoff := time.Now().Add(-retentionRuns)
	if _, err := db.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: prune: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveRun writes a calibration result and returns its run id.
func (s *SQLiteStore) SaveRun(ctx context.Context, meta RunMeta, result cds.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store.SaveRun: begin: %w", err)
	}
	defer tx.Rollback()

	createdAt := meta.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, recovery_rate, frequency, notional) VALUES (?, ?, ?, ?)`,
		createdAt, meta.RecoveryRate, meta.Frequency, meta.Notional,
	)
	if err != nil {
		return 0, fmt.Errorf("store.SaveRun: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store.SaveRun: run id: %w", err)
	}

	segments := result.Curve.Segments()
	for i, seg := range segments {
		residualBPS := 0.0
		if i < len(result.ParErrors) {
			residualBPS = result.ParErrors[i] * 10000.0
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO segments (run_id, seq, seg_start, seg_end, hazard_rate, residual_bps) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, seg.Start, seg.End, seg.Rate, residualBPS,
		); err != nil {
			return 0, fmt.Errorf("store.SaveRun: insert segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store.SaveRun: commit: %w", err)
	}
	return runID, nil
}

// LastRun loads the most recent persisted run, or sql.ErrNoRows via wrap
// when the store is empty.
func (s *SQLiteStore) LastRun(ctx context.Context) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, recovery_rate, frequency, notional
		   FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&run.ID, &run.Meta.CreatedAt, &run.Meta.RecoveryRate, &run.Meta.Frequency, &run.Meta.Notional)
	if err != nil {
		return nil, fmt.Errorf("store.LastRun: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seg_start, seg_end, hazard_rate, residual_bps FROM segments WHERE run_id = ? ORDER BY seq`,
		run.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("store.LastRun: segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seg hazard.Segment
		var residual float64
		if err := rows.Scan(&seg.Start, &seg.End, &seg.Rate, &residual); err != nil {
			return nil, fmt.Errorf("store.LastRun: scan: %w", err)
		}
		run.Segments = append(run.Segments, seg)
		run.Residuals = append(run.Residuals, residual)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.LastRun: %w", err)
	}
	return run, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
