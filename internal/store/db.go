package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenSQLite opens the content index database at the supplied DSN and wraps
// it with the bun SQLite dialect.
func OpenSQLite(dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("post store: sqlite DSN is required")
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("post store: open sqlite %s: %w", dsn, err)
	}
	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

// EnsureSchema creates the posts table when it does not exist yet. The SQL
// migration files shipped with the module remain the source of truth for
// managed deployments; this covers local tooling and tests.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Post)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("post store: ensure schema: %w", err)
	}
	return nil
}
