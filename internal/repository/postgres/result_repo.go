package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advanced-form/internal/domain"
	"advanced-form/internal/form"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by *pgxpool.Pool, pgx.Tx and *pgx.Conn.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createResultsTable = `CREATE TABLE IF NOT EXISTS form_results (
	session_id TEXT NOT NULL,
	version    SMALLINT NOT NULL,
	result     TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (session_id, version)
)`

// DefaultResultTTL matches the lifetime of the session cookie.
const DefaultResultTTL = 7 * 24 * time.Hour

// ResultRepository stores results for ttl after their last update. Results
// echo the submitted password, so expired rows are not read and are removed
// by PurgeExpired.
type ResultRepository struct {
	db  querier
	ttl time.Duration
}

// NewResultRepository returns a repository keeping results for ttl; zero
// or negative means DefaultResultTTL.
func NewResultRepository(db querier, ttl time.Duration) *ResultRepository {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &ResultRepository{db: db, ttl: ttl}
}

var _ domain.ResultRepository = (*ResultRepository)(nil)

// EnsureSchema creates the form_results table when missing.
func EnsureSchema(ctx context.Context, db querier) error {
	if _, err := db.Exec(ctx, createResultsTable); err != nil {
		return fmt.Errorf("create form_results: %w", err)
	}
	return nil
}

func (r *ResultRepository) Save(ctx context.Context, sessionID string, version form.Version, result string) error {
	query := `INSERT INTO form_results (session_id, version, result, updated_at)
              VALUES ($1, $2, $3, NOW())
              ON CONFLICT (session_id, version)
              DO UPDATE SET result = EXCLUDED.result, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.Exec(ctx, query, sessionID, int(version), result); err != nil {
		return fmt.Errorf("save form result: %w", err)
	}
	return nil
}

func (r *ResultRepository) Get(ctx context.Context, sessionID string, version form.Version) (string, error) {
	query := `SELECT result FROM form_results
              WHERE session_id = $1 AND version = $2
                AND updated_at > NOW() - $3 * INTERVAL '1 second'`
	var result string
	err := r.db.QueryRow(ctx, query, sessionID, int(version), r.ttlSeconds()).Scan(&result)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrResultNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get form result: %w", err)
	}
	return result, nil
}

// PurgeExpired deletes results older than the ttl and returns how many went.
func (r *ResultRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM form_results WHERE updated_at <= NOW() - $1 * INTERVAL '1 second'`
	tag, err := r.db.Exec(ctx, query, r.ttlSeconds())
	if err != nil {
		return 0, fmt.Errorf("purge form results: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ResultRepository) ttlSeconds() int64 {
	return int64(r.ttl / time.Second)
}
