package dto

import "github.com/SscSPs/expense_sharing_app/internal/core/domain"

// ListAuditLogsParams defines query parameters for listing audit entries.
type ListAuditLogsParams struct {
	Limit  int `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAuditLogsResponse wraps a page of audit entries.
type ListAuditLogsResponse struct {
	Logs []domain.AuditLog `json:"logs"`
}
