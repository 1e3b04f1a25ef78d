package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/portalauth/internal/client/storage/migrations"
	"github.com/dmitrijs2005/portalauth/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const busyTimeoutMillis = 5000

// RunMigrations applies the embedded migrations. Safe to call repeatedly.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate client db: %w", err)
	}
	return nil
}

// dsn applies the pragmas to every pooled connection. Other client
// processes may share the file.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, busyTimeoutMillis)
}

// Open opens (or creates) the client database at path and migrates it.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open client db: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open client db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open client db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
