package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/services"
)

type AnalyticsHandler struct {
	Service *services.AnalyticsService
}

// Stats returns per-category expense totals for chart rendering.
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.Service.ExpenseStats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Report returns the income/expense summary for the last N days.
func (h *AnalyticsHandler) Report(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	report, err := h.Service.Report(c.Request.Context(), userID, days)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
