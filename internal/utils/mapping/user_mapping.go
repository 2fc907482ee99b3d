package mapping

import (
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/models"
)

// ToModelUser converts a domain User to a model User.
// The domain token is expected to already be hashed.
func ToModelUser(d domain.User) models.User {
	var passwordHash *string
	if d.PasswordHash != "" {
		h := d.PasswordHash
		passwordHash = &h
	}
	roles := make([]string, len(d.Roles))
	for i, r := range d.Roles {
		roles[i] = string(r)
	}
	return models.User{
		UserID:         d.UserID,
		Username:       d.Username,
		PasswordHash:   passwordHash,
		LoginTokenHash: d.Token,
		PartnerID:      d.PartnerID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		Roles:          roles,
		TagIDs:         d.TagIDs,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	passwordHash := ""
	if m.PasswordHash != nil {
		passwordHash = *m.PasswordHash
	}
	roles := make([]domain.Role, len(m.Roles))
	for i, r := range m.Roles {
		roles[i] = domain.Role(r)
	}
	tagIDs := m.TagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		PasswordHash: passwordHash,
		Token:        m.LoginTokenHash,
		Roles:        roles,
		PartnerID:    m.PartnerID,
		TagIDs:       tagIDs,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
