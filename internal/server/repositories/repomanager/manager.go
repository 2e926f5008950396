// Package repomanager vends the repositories of the development server,
// either PostgreSQL-backed or in memory.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/policyinsight/internal/dbx"
	"github.com/dmitrijs2005/policyinsight/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/policyinsight/internal/server/repositories/users"
)

// RepositoryManager builds repositories bound to a DBTX, so the same code
// runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
