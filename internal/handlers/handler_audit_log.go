package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type auditLogHandler struct {
	auditService portssvc.AuditSvc
}

// RegisterAuditLogRoutes registers the audit trail listing.
func RegisterAuditLogRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvc) {
	h := &auditLogHandler{auditService: auditService}
	rg.GET("/logs", h.listLogs)
}

// listLogs godoc
// @Summary List audit entries
// @Description Expense writes, newest first.
// @Tags logs
// @Produce  json
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListAuditLogsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list audit logs"
// @Security BearerAuth
// @Router /logs [get]
func (h *auditLogHandler) listLogs(c *gin.Context) {
	var params dto.ListAuditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	logs, err := h.auditService.ListAuditLogs(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditLogsResponse{Logs: logs})
}
