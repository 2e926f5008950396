package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/policyinsight/internal/dbx"
	"github.com/dmitrijs2005/policyinsight/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/policyinsight/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out the same in-memory repositories
// whatever DBTX it is given.
type MemoryRepositoryManager struct {
	users  *users.MemoryRepository
	tokens *refreshtokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:  users.NewMemoryRepository(),
		tokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }
