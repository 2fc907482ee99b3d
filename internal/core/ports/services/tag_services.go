package services

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
)

// TagSvcFacade defines operations on tags.
type TagSvcFacade interface {
	CreateTag(ctx context.Context, req dto.CreateTagRequest, actorID string) (*domain.Tag, error)
	GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	UpdateTag(ctx context.Context, tagID string, req dto.UpdateTagRequest, actorID string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, tagID string) error
}
