// Package mssql implements a SQL Server storage.Repository using the
// go-mssqldb bulk copy API. Batches are written with mssql.CopyIn inside a
// transaction, the driver-level equivalent of SqlBulkCopy.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"datloader/internal/storage"
	"datloader/internal/storage/mssql/ddl"
)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
	storage.RegisterDDL("mssql", ddl.EnsureTable)
}

// Repository is a SQL Server-backed implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	schema string
	table  string
}

// NewRepository validates the DSN, opens the pool, and pings the server so
// obvious configuration mistakes fail before any file is read.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql ping: %w", err)
	}
	schema := cfg.Schema
	if schema == "" {
		schema = "dbo"
	}
	return &Repository{db: db, schema: schema, table: cfg.Table}, nil
}

// Close releases database resources.
func (r *Repository) Close() { _ = r.db.Close() }

func (r *Repository) fqn() string {
	return r.schema + "." + r.table
}

// CopyFrom performs a bulk insert directly into the configured target table.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.fqn(), mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// Truncate removes all rows from the destination table.
func (r *Repository) Truncate(ctx context.Context) error {
	return r.Exec(ctx, "TRUNCATE TABLE "+msFQN(r.fqn()))
}

// msIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func msIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// msFQN quotes a possibly schema-qualified name like "dbo.customers" to
// "[dbo].[customers]". If no dot is present, returns a single quoted ident.
func msFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = msIdent(p)
	}
	return strings.Join(parts, ".")
}
