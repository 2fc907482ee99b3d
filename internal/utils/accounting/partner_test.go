package accounting_test

import (
	"testing"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSet(pairs map[string]string, ids ...string) map[string]*domain.User {
	users := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		u := &domain.User{UserID: id}
		if p, ok := pairs[id]; ok {
			u.PartnerID = strPtr(p)
		}
		users[id] = u
	}
	return users
}

func partnerOf(users map[string]*domain.User, id string) string {
	if users[id].PartnerID == nil {
		return ""
	}
	return *users[id].PartnerID
}

func changedIDs(us []*domain.User) []string {
	out := []string{}
	for _, u := range us {
		out = append(out, u.UserID)
	}
	return out
}

func TestLinkPartners_LinksBothSides(t *testing.T) {
	users := userSet(nil, "a", "b")

	changed, err := accounting.LinkPartners(users, "a", strPtr("b"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, changedIDs(changed))
	assert.Equal(t, "b", partnerOf(users, "a"))
	assert.Equal(t, "a", partnerOf(users, "b"))
}

func TestLinkPartners_ReplacingPartnerUnlinksFormerOnes(t *testing.T) {
	users := userSet(map[string]string{"a": "b", "b": "a", "c": "d", "d": "c"}, "a", "b", "c", "d")

	changed, err := accounting.LinkPartners(users, "a", strPtr("c"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, changedIDs(changed))
	assert.Equal(t, "c", partnerOf(users, "a"))
	assert.Equal(t, "a", partnerOf(users, "c"))
	assert.Empty(t, partnerOf(users, "b"))
	assert.Empty(t, partnerOf(users, "d"))
}

func TestLinkPartners_NilClearsBothSides(t *testing.T) {
	users := userSet(map[string]string{"a": "b", "b": "a"}, "a", "b")

	changed, err := accounting.LinkPartners(users, "a", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, changedIDs(changed))
	assert.Empty(t, partnerOf(users, "a"))
	assert.Empty(t, partnerOf(users, "b"))
}

func TestLinkPartners_RelinkingSamePairChangesNothing(t *testing.T) {
	users := userSet(map[string]string{"a": "b", "b": "a"}, "a", "b")

	changed, err := accounting.LinkPartners(users, "a", strPtr("b"))
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Equal(t, "b", partnerOf(users, "a"))
	assert.Equal(t, "a", partnerOf(users, "b"))
}

func TestLinkPartners_Errors(t *testing.T) {
	users := userSet(nil, "a")

	_, err := accounting.LinkPartners(users, "a", strPtr("a"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = accounting.LinkPartners(users, "a", strPtr("missing"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = accounting.LinkPartners(users, "missing", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
