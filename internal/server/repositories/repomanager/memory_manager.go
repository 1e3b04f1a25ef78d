package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/portalauth/internal/dbx"
	"github.com/dmitrijs2005/portalauth/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out one shared in-memory store regardless
// of the DBTX it is given; transactions are not supported.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }
