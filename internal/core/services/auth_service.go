package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/platform/config"
	"github.com/SscSPs/expense_sharing_app/internal/utils"
)

// tokenService issues the JWT access tokens returned by the auth endpoints.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.EffectiveRoles() {
		roles = append(roles, string(r))
	}

	accessToken, err := utils.GenerateJWT(user.UserID, user.Username, roles, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, expiryTime, nil
}
