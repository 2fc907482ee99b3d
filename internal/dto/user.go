package dto

import (
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateUserRequest defines the data needed to create a user (admin only).
// Users without a password sign in through an issued token.
type CreateUserRequest struct {
	Username string        `json:"username" binding:"required,min=3,max=180"`
	Password *string       `json:"password" binding:"omitempty,min=8"`
	Roles    []domain.Role `json:"roles" binding:"dive,oneof=ROLE_USER ROLE_ADMIN"`
	TagIDs   []string      `json:"tagIDs"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Username *string        `json:"username" binding:"omitempty,min=3,max=180"`
	Roles    *[]domain.Role `json:"roles" binding:"omitempty,dive,oneof=ROLE_USER ROLE_ADMIN"`
	TagIDs   *[]string      `json:"tagIDs"`
}

// SetPartnerRequest links a user to a partner, or unlinks when PartnerID is null.
type SetPartnerRequest struct {
	PartnerID *string `json:"partnerID"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Username string `form:"username"`
	Limit    int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
}

// UserResponse is the API view of a user.
type UserResponse struct {
	UserID    string           `json:"userID"`
	Username  string           `json:"username"`
	Roles     []domain.Role    `json:"roles"`
	PartnerID *string          `json:"partnerID,omitempty"`
	TagIDs    []string         `json:"tagIDs"`
	Balance   *decimal.Decimal `json:"balance,omitempty"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// IssuedTokenResponse is returned when an admin issues a login token.
type IssuedTokenResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ToUserResponse converts a domain.User to its API view.
func ToUserResponse(user *domain.User) UserResponse {
	tagIDs := user.TagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Roles:     user.EffectiveRoles(),
		PartnerID: user.PartnerID,
		TagIDs:    tagIDs,
	}
}

// ToUserResponseWithBalance adds the pooled balance to the user view.
func ToUserResponseWithBalance(user *domain.User, balance decimal.Decimal) UserResponse {
	resp := ToUserResponse(user)
	resp.Balance = &balance
	return resp
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO.
// Users present in balances get their balance attached.
func ToListUserResponse(users []domain.User, balances map[string]decimal.Decimal) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		if balance, ok := balances[users[i].UserID]; ok {
			userResponses[i] = ToUserResponseWithBalance(&users[i], balance)
			continue
		}
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
