package services

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
)

// AuditSvc lists the audit trail.
type AuditSvc interface {
	ListAuditLogs(ctx context.Context, limit int, offset int) ([]domain.AuditLog, error)
}
