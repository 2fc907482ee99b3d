package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
)

type auditService struct {
	auditRepo portsrepo.AuditReader
}

// NewAuditService creates the read side of the audit trail.
func NewAuditService(auditRepo portsrepo.AuditReader) portssvc.AuditSvc {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListAuditLogs(ctx context.Context, limit int, offset int) ([]domain.AuditLog, error) {
	logs, err := s.auditRepo.ListAuditLogs(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
