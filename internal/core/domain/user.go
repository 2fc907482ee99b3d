package domain

import (
	"slices"
	"time"
)

// Role grants access to groups of operations.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// User represents a member of the expense-sharing group.
type User struct {
	UserID       string   `json:"userID"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Token        *string  `json:"-"` // hash of the single-use login token, nil once consumed
	Roles        []Role   `json:"roles"`
	PartnerID    *string  `json:"partnerID,omitempty"`
	TagIDs       []string `json:"tagIDs"`
	AuditFields
}

// EffectiveRoles returns the stored roles plus the implicit RoleUser.
func (u User) EffectiveRoles() []Role {
	if slices.Contains(u.Roles, RoleUser) {
		return u.Roles
	}
	return append([]Role{RoleUser}, u.Roles...)
}

// HasRole reports whether the user holds role.
func (u User) HasRole(role Role) bool {
	return slices.Contains(u.EffectiveRoles(), role)
}

// Getters used by DTO conversion.
func (u User) GetUserID() string   { return u.UserID }
func (u User) GetUsername() string { return u.Username }

// LoginToken is a freshly issued single-use token.
type LoginToken struct {
	Token    string
	UserID   string
	Username string
	IssuedAt time.Time
}
