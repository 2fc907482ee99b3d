package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type tagHandler struct {
	tagService portssvc.TagSvcFacade
}

// RegisterTagRoutes registers the tag routes on rg.
func RegisterTagRoutes(rg *gin.RouterGroup, tagService portssvc.TagSvcFacade) {
	registerValidators()
	h := &tagHandler{tagService: tagService}

	tags := rg.Group("/tags")
	{
		tags.GET("", h.listTags)
		tags.POST("", h.createTag)
		tags.GET("/:id", h.getTag)
		tags.PATCH("/:id", h.updateTag)
		tags.DELETE("/:id", h.deleteTag)
	}
}

// listTags godoc
// @Summary List tags
// @Tags tags
// @Produce  json
// @Success 200 {object} dto.ListTagsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list tags"
// @Security BearerAuth
// @Router /tags [get]
func (h *tagHandler) listTags(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list tags")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTagsResponse(tags))
}

// createTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept  json
// @Produce  json
// @Param   tag body dto.CreateTagRequest true "Tag"
// @Success 201 {object} dto.TagResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Slug already used"
// @Failure 500 {object} dto.ErrorResponse "Failed to create tag"
// @Security BearerAuth
// @Router /tags [post]
func (h *tagHandler) createTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	actorID, ok := requireUserID(c)
	if !ok {
		return
	}

	tag, err := h.tagService.CreateTag(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create tag")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Tag created successfully", slog.String("tag_id", tag.TagID))
	c.JSON(http.StatusCreated, dto.ToTagResponse(tag))
}

// getTag godoc
// @Summary Get a tag
// @Tags tags
// @Produce  json
// @Param   id path string true "Tag ID"
// @Success 200 {object} dto.TagResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Tag not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve tag"
// @Security BearerAuth
// @Router /tags/{id} [get]
func (h *tagHandler) getTag(c *gin.Context) {
	tag, err := h.tagService.GetTagByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tag")
		return
	}
	c.JSON(http.StatusOK, dto.ToTagResponse(tag))
}

// updateTag godoc
// @Summary Update a tag
// @Tags tags
// @Accept  json
// @Produce  json
// @Param   id path string true "Tag ID"
// @Param   tag body dto.UpdateTagRequest true "Fields to change"
// @Success 200 {object} dto.TagResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Tag not found"
// @Failure 409 {object} dto.ErrorResponse "Slug already used"
// @Failure 500 {object} dto.ErrorResponse "Failed to update tag"
// @Security BearerAuth
// @Router /tags/{id} [patch]
func (h *tagHandler) updateTag(c *gin.Context) {
	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	actorID, ok := requireUserID(c)
	if !ok {
		return
	}

	tag, err := h.tagService.UpdateTag(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update tag")
		return
	}
	c.JSON(http.StatusOK, dto.ToTagResponse(tag))
}

// deleteTag godoc
// @Summary Delete a tag
// @Description Expenses keep existing without a tag.
// @Tags tags
// @Param   id path string true "Tag ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Tag not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete tag"
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *tagHandler) deleteTag(c *gin.Context) {
	if err := h.tagService.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}
