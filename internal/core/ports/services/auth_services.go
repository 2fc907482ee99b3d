package services

import (
	"context"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
)

// TokenSvcFacade issues access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a new JWT access token for the given user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
