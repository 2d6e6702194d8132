package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/advgen/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create persists a new run in the "running" state and fills in run.ID.
// The id is allocated inside the INSERT itself so concurrent workers on
// the same database never race a separate read-then-insert: SQLite
// serializes the writers and each one computes MAX over the committed
// rows of the previous.
func (r *RunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO runs (id, shard_id, domain, attack, pid, status)
		 SELECT 'RUN-' || printf('%03d', COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) + 1),
		        ?, ?, ?, ?, 'running'
		 FROM runs
		 RETURNING id`,
		run.ShardID, run.Domain, run.Attack, run.PID,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// Finish records the terminal state of a run.
func (r *RunRepository) Finish(ctx context.Context, id, status string, problemsOK, problemsFailed int, realizedPerc float64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE runs SET status = ?, problems_ok = ?, problems_failed = ?, realized_perc = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, problemsOK, problemsFailed, realizedPerc, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("run %s not found", id)
	}

	return nil
}

// List retrieves the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, shard_id, domain, attack, pid, status, problems_ok, problems_failed,
		        realized_perc, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

// scanRun scans a run row into a RunRecord.
func scanRun(scanner interface {
	Scan(dest ...any) error
}) (*secondary.RunRecord, error) {
	var (
		pid          sql.NullInt64
		realizedPerc sql.NullFloat64
		startedAt    time.Time
		finishedAt   sql.NullTime
	)

	record := &secondary.RunRecord{}
	err := scanner.Scan(
		&record.ID, &record.ShardID, &record.Domain, &record.Attack, &pid,
		&record.Status, &record.ProblemsOK, &record.ProblemsFailed,
		&realizedPerc, &startedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}

	record.PID = int(pid.Int64)
	record.RealizedPerc = realizedPerc.Float64
	record.StartedAt = startedAt.Format(time.RFC3339)
	if finishedAt.Valid {
		record.FinishedAt = finishedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Ensure RunRepository implements the interface
var _ secondary.RunRepository = (*RunRepository)(nil)
