package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"huffpack_go/internal/model"
)

func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return pool, nil
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS codec_runs (
  id             TEXT PRIMARY KEY,
  mode           TEXT NOT NULL,
  name           TEXT NOT NULL,
  bytes_in       BIGINT NOT NULL,
  bytes_out      BIGINT NOT NULL,
  workers        INTEGER NOT NULL,
  chunks         INTEGER NOT NULL,
  baseline_bytes BIGINT NOT NULL DEFAULT 0,
  duration_ns    BIGINT NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL,
  error          TEXT NOT NULL DEFAULT ''
)`)
	return err
}

// querier is the part of *pgxpool.Pool the run repo uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type runRepoPostgres struct {
	pool querier
}

func NewRunRepoPostgres(pool *pgxpool.Pool) RunRepo {
	return &runRepoPostgres{pool: pool}
}

const runColumns = `id, mode, name, bytes_in, bytes_out, workers, chunks, baseline_bytes, duration_ns, created_at, error`

func (r *runRepoPostgres) Save(ctx context.Context, run *model.Run) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO codec_runs (`+runColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
  bytes_out = EXCLUDED.bytes_out,
  duration_ns = EXCLUDED.duration_ns,
  error = EXCLUDED.error`,
		run.ID, string(run.Mode), run.Name, run.BytesIn, run.BytesOut, run.Workers, run.Chunks,
		run.BaselineBytes, int64(run.Duration), run.CreatedAt, run.Err)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

func (r *runRepoPostgres) FindByID(ctx context.Context, id string) (*model.Run, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM codec_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find run %s: %w", id, err)
	}
	return run, nil
}

func (r *runRepoPostgres) List(ctx context.Context, limit int) ([]*model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM codec_runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (*model.Run, error) {
	var (
		run   model.Run
		mode  string
		durNs int64
	)
	err := row.Scan(&run.ID, &mode, &run.Name, &run.BytesIn, &run.BytesOut, &run.Workers, &run.Chunks,
		&run.BaselineBytes, &durNs, &run.CreatedAt, &run.Err)
	if err != nil {
		return nil, err
	}
	run.Mode = model.Mode(mode)
	run.Duration = time.Duration(durNs)
	return &run, nil
}
