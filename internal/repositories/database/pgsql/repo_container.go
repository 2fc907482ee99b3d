package pgsql

import (
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository onto a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExpenseRepo: newPgxExpenseRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
		TagRepo:     newPgxTagRepository(dbPool),
		AuditRepo:   newPgxAuditLogRepository(dbPool),
	}
}
