package repositories

import (
	"context"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
)

// TagReader defines read operations for tags.
type TagReader interface {
	FindTags(ctx context.Context) ([]domain.Tag, error)
	FindTagByID(ctx context.Context, tagID string) (*domain.Tag, error)
	FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
}

// TagWriter defines write operations for tags.
type TagWriter interface {
	SaveTag(ctx context.Context, tag domain.Tag) error
	UpdateTag(ctx context.Context, tag domain.Tag) error
	// DeleteTag removes the tag; expenses carrying it keep no tag.
	DeleteTag(ctx context.Context, tagID string) error
}

// TagRepositoryFacade combines all tag-related repository interfaces.
type TagRepositoryFacade interface {
	TagReader
	TagWriter
}
