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
	"github.com/google/uuid"
)

type tagService struct {
	BaseService
	tagRepo portsrepo.TagRepositoryFacade
}

// NewTagService creates a new tag service.
func NewTagService(tagRepo portsrepo.TagRepositoryFacade) portssvc.TagSvcFacade {
	return &tagService{tagRepo: tagRepo}
}

var _ portssvc.TagSvcFacade = (*tagService)(nil)

func (s *tagService) CreateTag(ctx context.Context, req dto.CreateTagRequest, actorID string) (*domain.Tag, error) {
	now := time.Now().UTC()
	tag := domain.Tag{
		TagID: uuid.NewString(),
		Slug:  req.Slug,
		Label: req.Label,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, tag.Slug, ""); err != nil {
		return nil, err
	}

	if err := s.tagRepo.SaveTag(ctx, tag); err != nil {
		s.LogError(ctx, err, "Failed to save tag", slog.String("slug", tag.Slug))
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	s.LogInfo(ctx, "Tag created", slog.String("tag_id", tag.TagID), slog.String("slug", tag.Slug))
	return &tag, nil
}

func (s *tagService) GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.tagRepo.FindTagByID(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %s: %w", tagID, err)
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepo.FindTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *tagService) UpdateTag(ctx context.Context, tagID string, req dto.UpdateTagRequest, actorID string) (*domain.Tag, error) {
	tag, err := s.tagRepo.FindTagByID(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %s: %w", tagID, err)
	}

	changed := false
	if req.Slug != nil && *req.Slug != tag.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, tag.TagID); err != nil {
			return nil, err
		}
		tag.Slug = *req.Slug
		changed = true
	}
	if req.Label != nil && *req.Label != tag.Label {
		tag.Label = *req.Label
		changed = true
	}
	if !changed {
		return tag, nil
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	tag.LastUpdatedAt = time.Now().UTC()
	tag.LastUpdatedBy = actorID
	if err := s.tagRepo.UpdateTag(ctx, *tag); err != nil {
		s.LogError(ctx, err, "Failed to update tag", slog.String("tag_id", tagID))
		return nil, fmt.Errorf("failed to update tag %s: %w", tagID, err)
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, tagID string) error {
	if err := s.tagRepo.DeleteTag(ctx, tagID); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", tagID, err)
	}
	s.LogInfo(ctx, "Tag deleted", slog.String("tag_id", tagID))
	return nil
}

// ensureSlugFree fails with ErrDuplicate when another tag already uses slug.
func (s *tagService) ensureSlugFree(ctx context.Context, slug string, ownID string) error {
	existing, err := s.tagRepo.FindTagBySlug(ctx, slug)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check tag slug: %w", err)
	case existing.TagID != ownID:
		return fmt.Errorf("tag slug %q: %w", slug, apperrors.ErrDuplicate)
	}
	return nil
}
