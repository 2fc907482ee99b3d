package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/utils"
	"github.com/SscSPs/expense_sharing_app/internal/utils/accounting"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	tagRepo  portsrepo.TagReader
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, tagRepo portsrepo.TagReader) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		tagRepo:  tagRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, portsrepo.UserFilter{
		Username: params.Username,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actorID string) (*domain.User, error) {
	if err := s.ensureUsernameFree(ctx, req.Username, ""); err != nil {
		return nil, err
	}
	if err := s.checkTags(ctx, req.TagIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:   uuid.NewString(),
		Username: req.Username,
		Roles:    req.Roles,
		TagIDs:   req.TagIDs,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if len(user.Roles) == 0 {
		user.Roles = []domain.Role{domain.RoleUser}
	}
	if user.TagIDs == nil {
		user.TagIDs = []string{}
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("username", user.Username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actorID string) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Username != nil && *req.Username != user.Username {
		if err := s.ensureUsernameFree(ctx, *req.Username, user.UserID); err != nil {
			return nil, err
		}
		user.Username = *req.Username
		changed = true
	}
	if req.Roles != nil {
		user.Roles = *req.Roles
		changed = true
	}
	if req.TagIDs != nil {
		if err := s.checkTags(ctx, *req.TagIDs); err != nil {
			return nil, err
		}
		user.TagIDs = *req.TagIDs
		changed = true
	}
	if !changed {
		return user, nil
	}

	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = actorID
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) SetPartner(ctx context.Context, userID string, partnerID *string, actorID string) (*domain.User, error) {
	users := make(map[string]*domain.User, 4)
	load := func(id string) error {
		if _, ok := users[id]; ok {
			return nil
		}
		u, err := s.userRepo.FindUserByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load user %s: %w", id, err)
		}
		users[id] = u
		return nil
	}

	// The user, the new partner and both of their current partners can change.
	if err := load(userID); err != nil {
		return nil, err
	}
	if current := users[userID].PartnerID; current != nil {
		if err := load(*current); err != nil {
			return nil, err
		}
	}
	if partnerID != nil && *partnerID != userID {
		if err := load(*partnerID); err != nil {
			return nil, err
		}
		if current := users[*partnerID].PartnerID; current != nil {
			if err := load(*current); err != nil {
				return nil, err
			}
		}
	}

	changed, err := accounting.LinkPartners(users, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return users[userID], nil
	}

	now := time.Now().UTC()
	toSave := make([]domain.User, len(changed))
	for i, u := range changed {
		u.LastUpdatedAt = now
		u.LastUpdatedBy = actorID
		toSave[i] = *u
	}
	if err := s.userRepo.UpdatePartnerLinks(ctx, toSave); err != nil {
		s.LogError(ctx, err, "Failed to update partner links", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to set partner of %s: %w", userID, err)
	}
	s.LogInfo(ctx, "Partner links updated", slog.String("user_id", userID), slog.Int("changed", len(changed)))
	return users[userID], nil
}

func (s *userService) IssueLoginToken(ctx context.Context, userID string) (*domain.LoginToken, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := utils.GenerateSecureRandomString(utils.LoginTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate login token: %w", err)
	}
	if err := s.userRepo.SetToken(ctx, user.UserID, utils.HashLoginToken(raw)); err != nil {
		s.LogError(ctx, err, "Failed to store login token", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to store login token: %w", err)
	}

	s.LogInfo(ctx, "Login token issued", slog.String("user_id", userID))
	return &domain.LoginToken{
		Token:    raw,
		UserID:   user.UserID,
		Username: user.Username,
		IssuedAt: time.Now().UTC(),
	}, nil
}

func (s *userService) AuthenticateByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.userRepo.FindUserByToken(ctx, utils.HashLoginToken(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up login token: %w", err)
	}
	return user, nil
}

func (s *userService) AuthenticateByPassword(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Password authentication failed", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *userService) UpdateCredentials(ctx context.Context, req dto.UpdateCredentialsRequest) (*domain.User, error) {
	user, err := s.AuthenticateByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if req.Username == nil && req.Password == nil {
		return nil, apperrors.NewValidationError(apperrors.Violation{
			Code:    "credentials_required",
			Message: "a new username or password is required",
		})
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := s.ensureUsernameFree(ctx, *req.Username, user.UserID); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.Token = nil
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = user.UserID

	if err := s.userRepo.UpdateCredentials(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update credentials", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to update credentials: %w", err)
	}
	s.LogInfo(ctx, "Credentials updated", slog.String("user_id", user.UserID))
	return user, nil
}

// ensureUsernameFree fails with ErrDuplicate when another user holds username.
func (s *userService) ensureUsernameFree(ctx context.Context, username string, ownID string) error {
	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check username: %w", err)
	case existing.UserID != ownID:
		return fmt.Errorf("username %q: %w", username, apperrors.ErrDuplicate)
	}
	return nil
}

func (s *userService) checkTags(ctx context.Context, tagIDs []string) error {
	var violations []apperrors.Violation
	for _, id := range tagIDs {
		if _, err := s.tagRepo.FindTagByID(ctx, id); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to check tag %s: %w", id, err)
			}
			violations = append(violations, apperrors.Violation{
				Code:    "unknown_tag",
				Field:   "tagIDs",
				Message: fmt.Sprintf("tag %s does not exist", id),
			})
		}
	}
	if len(violations) > 0 {
		return apperrors.NewValidationError(violations...)
	}
	return nil
}
