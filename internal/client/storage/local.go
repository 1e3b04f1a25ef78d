package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/dbx"
)

// LocalRepository is the same-origin key/value store.
type LocalRepository struct {
	db     dbx.DBTX
	origin string
	now    func() time.Time
}

func NewLocalRepository(db dbx.DBTX, origin string) *LocalRepository {
	return &LocalRepository{db: db, origin: normalizeHost(origin), now: time.Now}
}

// Get returns the value for key and whether it was present and unexpired.
func (r *LocalRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM local_storage
		WHERE origin = ? AND key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, r.origin, key, r.now().UnixMilli()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get local[%s]: %w", key, err)
	}
	return value, true, nil
}

// Set stores value without expiry.
func (r *LocalRepository) Set(ctx context.Context, key, value string) error {
	return r.set(ctx, key, value, sql.NullInt64{})
}

// SetWithTTL stores value so that it reads as absent once ttl has passed.
func (r *LocalRepository) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	exp := sql.NullInt64{Int64: r.now().Add(ttl).UnixMilli(), Valid: true}
	return r.set(ctx, key, value, exp)
}

func (r *LocalRepository) set(ctx context.Context, key, value string, expires sql.NullInt64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO local_storage (origin, key, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(origin, key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, r.origin, key, value, expires)
	if err != nil {
		return fmt.Errorf("failed to set local[%s]: %w", key, err)
	}
	return nil
}

func (r *LocalRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM local_storage WHERE origin = ? AND key = ?`, r.origin, key)
	if err != nil {
		return fmt.Errorf("failed to delete local[%s]: %w", key, err)
	}
	return nil
}
