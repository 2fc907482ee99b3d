package repositories

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
)

// UserFilter narrows FindUsers.
type UserFilter struct {
	// Username matches any user whose username contains it, case-insensitively.
	Username string
	Limit    int
	Offset   int
}

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUsers retrieves a paginated, optionally filtered list of users.
	FindUsers(ctx context.Context, filter UserFilter) ([]domain.User, error)

	// FindAllUsers retrieves every user.
	FindAllUsers(ctx context.Context) ([]domain.User, error)

	// FindUserByUsername retrieves a user by exact username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByToken retrieves the user holding the given single-use token.
	FindUserByToken(ctx context.Context, token string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user with roles and tags.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates username, roles and tags.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateCredentials sets username and password hash and clears the token.
	UpdateCredentials(ctx context.Context, user domain.User) error

	// SetToken stores a new single-use token for the user.
	SetToken(ctx context.Context, userID string, token string) error

	// UpdatePartnerLinks writes the PartnerID of every given user in one transaction.
	UpdatePartnerLinks(ctx context.Context, users []domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
