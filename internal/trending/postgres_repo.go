package trending

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (string, error) {
	const sql = `
		INSERT INTO trend_refresh_runs (started_at, status, source)
		VALUES ($1, $2, $3)
		RETURNING id::text`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id string
	err := r.db.QueryRow(timeoutCtx, sql, run.StartedAt, run.Status, run.Source).Scan(&id)
	return id, err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE trend_refresh_runs SET
			finished_at = $1,
			status = $2,
			affected_count = $3,
			error = $4
		WHERE id::text = $5`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, run.FinishedAt, run.Status, run.AffectedCount, run.Error, run.ID)
	return err
}

func (r *PostgresRepo) LastRun(ctx context.Context) (*Run, error) {
	const sql = `
		SELECT id::text, started_at, finished_at, status, source, affected_count, COALESCE(error, '')
		FROM trend_refresh_runs
		ORDER BY started_at DESC
		LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var run Run
	err := r.db.QueryRow(timeoutCtx, sql).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &run.Source, &run.AffectedCount, &run.Error,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *PostgresRepo) CountTrending(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM tools WHERE is_trending = true").Scan(&n)
	return n, err
}
