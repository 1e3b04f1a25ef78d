package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/dbx"
	"github.com/dmitrijs2005/portalauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, email, username, nickname, avatar, password_hash, google_subject)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, normalizeEmail(user.Email), user.Username, user.Nickname, user.Avatar,
		user.PasswordHash, nullString(user.GoogleSubject)).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const selectUser = `SELECT id, email, username, nickname, avatar, password_hash, google_subject, created_at FROM users`

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var subject sql.NullString

	err := r.db.QueryRowContext(ctx, selectUser+" WHERE "+where+" = $1", arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.Nickname, &user.Avatar,
		&user.PasswordHash, &subject, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.GoogleSubject = subject.String
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", normalizeEmail(email))
}

func (r *PostgresRepository) GetByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	return r.getOne(ctx, "google_subject", subject)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (r *PostgresRepository) LinkGoogle(ctx context.Context, id, subject string) error {
	return r.update(ctx, `UPDATE users SET google_subject = $2 WHERE id = $1`, id, subject)
}

func (r *PostgresRepository) update(ctx context.Context, query, id string, value any) error {
	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
