package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It is used when no
// database DSN is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(user.Email)
	for _, u := range r.users {
		if u.Email == email || (user.GoogleSubject != "" && u.GoogleSubject == user.GoogleSubject) {
			return nil, common.ErrorAlreadyExists
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = email
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user

	return user, nil
}

func (r *MemoryRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetByGoogleSubject(_ context.Context, subject string) (*models.User, error) {
	if subject == "" {
		return nil, common.ErrorNotFound
	}
	return r.find(func(u models.User) bool { return u.GoogleSubject == subject })
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.modify(id, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (r *MemoryRepository) LinkGoogle(_ context.Context, id, subject string) error {
	r.mu.RLock()
	for _, u := range r.users {
		if u.ID != id && u.GoogleSubject == subject {
			r.mu.RUnlock()
			return common.ErrorAlreadyExists
		}
	}
	r.mu.RUnlock()
	return r.modify(id, func(u *models.User) { u.GoogleSubject = subject })
}

func (r *MemoryRepository) modify(id string, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}
