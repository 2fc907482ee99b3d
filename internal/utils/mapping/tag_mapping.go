package mapping

import (
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/models"
)

// ToModelTag converts a domain Tag to a model Tag
func ToModelTag(d domain.Tag) models.Tag {
	return models.Tag{
		TagID:       d.TagID,
		Slug:        d.Slug,
		Label:       d.Label,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTag converts a model Tag to a domain Tag
func ToDomainTag(m models.Tag) domain.Tag {
	return domain.Tag{
		TagID:       m.TagID,
		Slug:        m.Slug,
		Label:       m.Label,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
