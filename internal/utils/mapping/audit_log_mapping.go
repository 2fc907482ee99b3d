package mapping

import (
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/models"
)

// ToModelAuditLog converts a domain AuditLog to a model AuditLog
func ToModelAuditLog(d domain.AuditLog) models.AuditLog {
	return models.AuditLog{
		LogID:     d.LogID,
		Action:    string(d.Action),
		UserID:    d.UserID,
		ExpenseID: d.ExpenseID,
		Label:     d.Label,
		Amount:    d.Amount,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainAuditLog converts a model AuditLog to a domain AuditLog
func ToDomainAuditLog(m models.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		LogID:     m.LogID,
		Action:    domain.AuditAction(m.Action),
		UserID:    m.UserID,
		ExpenseID: m.ExpenseID,
		Label:     m.Label,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
	}
}
