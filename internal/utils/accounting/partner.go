package accounting

import (
	"fmt"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
)

// ErrSelfPartner is returned when a user is linked to themselves.
var ErrSelfPartner = apperrors.NewValidationError(apperrors.Violation{
	Code:    "self_partner",
	Field:   "partnerID",
	Message: "a user cannot be their own partner",
})

// LinkPartners makes userID and partnerID point at each other, first unlinking
// whoever either of them was previously paired with. A nil partnerID clears the
// link on both sides. users must contain userID, partnerID and their current
// partners. The returned users are the ones whose PartnerID changed.
func LinkPartners(users map[string]*domain.User, userID string, partnerID *string) ([]*domain.User, error) {
	user, ok := users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	var partner *domain.User
	if partnerID != nil {
		if *partnerID == userID {
			return nil, ErrSelfPartner
		}
		if partner, ok = users[*partnerID]; !ok {
			return nil, fmt.Errorf("partner %s: %w", *partnerID, apperrors.ErrNotFound)
		}
	}

	original := make(map[string]*string)
	touched := []*domain.User{}
	set := func(u *domain.User, to *string) {
		if samePartner(u.PartnerID, to) {
			return
		}
		if _, seen := original[u.UserID]; !seen {
			original[u.UserID] = u.PartnerID
			touched = append(touched, u)
		}
		if to == nil {
			u.PartnerID = nil
		} else {
			id := *to
			u.PartnerID = &id
		}
	}
	unlinkFormer := func(u *domain.User) {
		if u.PartnerID == nil {
			return
		}
		if former, ok := users[*u.PartnerID]; ok && former.PartnerID != nil && *former.PartnerID == u.UserID {
			set(former, nil)
		}
	}

	unlinkFormer(user)
	if partner == nil {
		set(user, nil)
	} else {
		unlinkFormer(partner)
		set(user, &partner.UserID)
		set(partner, &user.UserID)
	}

	changed := make([]*domain.User, 0, len(touched))
	for _, u := range touched {
		if !samePartner(original[u.UserID], u.PartnerID) {
			changed = append(changed, u)
		}
	}
	return changed, nil
}

func samePartner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
