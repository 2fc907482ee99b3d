package handlers

import (
	"bytes"
	"net/http"

	portssvc "github.com/SscSPs/expense_sharing_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type historyHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// RegisterHistoryRoutes registers the balance history report.
func RegisterHistoryRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := &historyHandler{balanceService: balanceService}

	history := rg.Group("/history")
	{
		history.GET("", h.getHistory)
		history.GET("/export", h.exportHistory)
	}
}

// getHistory godoc
// @Summary Balance history
// @Description Running balance of every user at the end of each day that has expenses, keyed by date.
// @Tags history
// @Produce  json
// @Success 200 {object} map[string]map[string]string
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to build history"
// @Security BearerAuth
// @Router /history [get]
func (h *historyHandler) getHistory(c *gin.Context) {
	history, err := h.balanceService.GetHistory(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// exportHistory godoc
// @Summary Export balance history
// @Description The balance history as a spreadsheet, one row per date and one column per user.
// @Tags history
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to export history"
// @Security BearerAuth
// @Router /history/export [get]
func (h *historyHandler) exportHistory(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.balanceService.ExportHistoryXLSX(c.Request.Context(), &buf); err != nil {
		respondError(c, err, "Failed to export history")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="history.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
