package dto

import "github.com/SscSPs/expense_sharing_app/internal/core/domain"

// CreateTagRequest defines the data needed to create a tag.
type CreateTagRequest struct {
	Slug  string `json:"slug" binding:"required,slug"`
	Label string `json:"label" binding:"required,max=255"`
}

// UpdateTagRequest defines the data allowed for updating a tag.
type UpdateTagRequest struct {
	Slug  *string `json:"slug" binding:"omitempty,slug"`
	Label *string `json:"label" binding:"omitempty,min=1,max=255"`
}

// TagResponse is the API view of a tag.
type TagResponse struct {
	TagID string `json:"tagID"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// ListTagsResponse wraps the list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags"`
}

// ToTagResponse converts a domain.Tag to its API view.
func ToTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{TagID: t.TagID, Slug: t.Slug, Label: t.Label}
}

// ToListTagsResponse converts a slice of tags.
func ToListTagsResponse(tags []domain.Tag) ListTagsResponse {
	out := make([]TagResponse, len(tags))
	for i := range tags {
		out[i] = ToTagResponse(&tags[i])
	}
	return ListTagsResponse{Tags: out}
}
