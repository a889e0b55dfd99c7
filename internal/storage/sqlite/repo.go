// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. SQLite has no dedicated bulk-load API; batches are written
// as prepared INSERTs inside a single transaction, which keeps performance
// acceptable for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"datloader/internal/storage"
	"datloader/internal/storage/sqlite/ddl"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
	storage.RegisterDDL("sqlite", ddl.EnsureTable)
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository opens a SQLite database using the provided DSN, for example
// "file:import.db?cache=shared" or a bare path. SQLite has no schemas; the
// Schema field of the config is ignored.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db, table: cfg.Table}, nil
}

// Close releases database resources.
func (r *Repository) Close() { _ = r.db.Close() }

// CopyFrom inserts the given rows into the configured table using a single
// transaction and a prepared INSERT statement.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(r.table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert row %d: %w", i, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Exec executes a SQL statement.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// Truncate removes all rows from the destination table. SQLite has no
// TRUNCATE; an unqualified DELETE takes the truncate optimization path.
func (r *Repository) Truncate(ctx context.Context) error {
	return r.Exec(ctx, "DELETE FROM "+quoteIdent(r.table))
}

// quoteIdent double-quotes a SQLite identifier, escaping embedded quotes.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
