package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := openTestDB(t)

	for _, tbl := range []string{"goose_db_version", "cookies", "local_storage"} {
		assert.True(t, tableExists(t, db, tbl), tbl)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(context.Background(), db))
	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestOpen_SharedFileAcrossHandles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	a, err := Open(ctx, path)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(ctx, path)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, NewCookieRepository(a).Set(ctx, Cookie{Name: "k", Value: "v", Domain: ".example.com"}))

	c, err := NewCookieRepository(b).Get(ctx, "k", "shop.example.com")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "v", c.Value)
}

func TestCookieDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"app.example.com", ".example.com"},
		{"a.b.example.com", ".example.com"},
		{"example.com", ".example.com"},
		{"APP.Example.COM:8443", ".example.com"},
		{"localhost", ""},
		{"localhost:3000", ""},
		{"127.0.0.1", ""},
		{"[::1]:80", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, CookieDomain(tt.host))
		})
	}
}

func TestDomainMatch(t *testing.T) {
	assert.True(t, DomainMatch("example.com", ".example.com"))
	assert.True(t, DomainMatch("app.example.com", "example.com"))
	assert.False(t, DomainMatch("badexample.com", ".example.com"))
	assert.False(t, DomainMatch("example.org", ".example.com"))
	assert.False(t, DomainMatch("example.com", ""))
}

func TestOpen_CreatesParentDirAndAppliesPragmas(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "nested", "dir", "client.db"))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, busyTimeoutMillis, timeout)
}
