package services

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
)

// UserReaderSvc defines read operations on users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error)
}

// UserWriterSvc defines admin write operations on users.
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actorID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actorID string) (*domain.User, error)
	// SetPartner links userID and partnerID symmetrically, or unlinks userID when partnerID is nil.
	SetPartner(ctx context.Context, userID string, partnerID *string, actorID string) (*domain.User, error)
}

// UserCredentialSvc covers login tokens and credentials.
type UserCredentialSvc interface {
	// IssueLoginToken stores a fresh single-use token for the user.
	IssueLoginToken(ctx context.Context, userID string) (*domain.LoginToken, error)
	// AuthenticateByToken resolves the holder of a login token.
	AuthenticateByToken(ctx context.Context, token string) (*domain.User, error)
	// AuthenticateByPassword verifies username and password.
	AuthenticateByPassword(ctx context.Context, username, password string) (*domain.User, error)
	// UpdateCredentials sets username and/or password for the token holder and consumes the token.
	UpdateCredentials(ctx context.Context, req dto.UpdateCredentialsRequest) (*domain.User, error)
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserCredentialSvc
}
