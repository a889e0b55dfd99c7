// Package postgres implements a Postgres storage.Repository using pgx v5.
// Bulk batches go through the COPY protocol (pgx CopyFrom), the fastest
// ingest path Postgres offers.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datloader/internal/storage"
	"datloader/internal/storage/postgres/ddl"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
	storage.RegisterDDL("postgres", ddl.EnsureTable)
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool   *pgxpool.Pool
	schema string
	table  string
}

// NewRepository opens a connection pool and validates connectivity.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	return &Repository{pool: pool, schema: schema, table: cfg.Table}, nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

func (r *Repository) ident() pgx.Identifier {
	return pgx.Identifier{r.schema, r.table}
}

// CopyFrom bulk-inserts rows into the configured table via COPY.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, r.ident(), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("pg copy into %s: %w", r.ident().Sanitize(), err)
	}
	return n, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.pool.Exec(ctx, sqlText)
	return err
}

// Truncate removes all rows from the destination table.
func (r *Repository) Truncate(ctx context.Context) error {
	return r.Exec(ctx, "TRUNCATE TABLE "+r.ident().Sanitize())
}
