package users

import (
	"context"

	"github.com/dmitrijs2005/portalauth/internal/server/models"
)

// Repository stores user accounts. Lookups of absent users return
// common.ErrorNotFound; duplicate emails or Google subjects return
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleSubject(ctx context.Context, subject string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	LinkGoogle(ctx context.Context, id, subject string) error
}
