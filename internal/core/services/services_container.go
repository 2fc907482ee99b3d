package services

import (
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portsrepo.BalanceCache) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.UserRepo,
		repos.TagRepo,
		WithAuditSink(repos.AuditRepo),
		WithBalanceCache(cache),
	)
	container.User = NewUserService(repos.UserRepo, repos.TagRepo)
	container.Tag = NewTagService(repos.TagRepo)
	container.Balance = NewBalanceService(repos.ExpenseRepo, repos.UserRepo, cache)
	container.Audit = NewAuditService(repos.AuditRepo)
	container.Token = NewTokenService(cfg)
	container.Generator = NewGeneratorService(repos.UserRepo, repos.TagRepo, container.Expense)

	return container
}
