package repositories

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
)

// AuditSink records expense changes.
type AuditSink interface {
	Record(ctx context.Context, entry domain.AuditLog) error
}

// AuditReader lists recorded changes, newest first.
type AuditReader interface {
	ListAuditLogs(ctx context.Context, limit int, offset int) ([]domain.AuditLog, error)
}

// AuditRepositoryFacade combines the audit log interfaces.
type AuditRepositoryFacade interface {
	AuditSink
	AuditReader
}
