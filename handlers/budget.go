package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/services"
)

type BudgetHandler struct {
	Service *services.BudgetService
	WS      *WSHandler
}

// Set pins the displayed budget of a category to the requested amount.
func (h *BudgetHandler) Set(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := c.Param("category")
	if err := h.Service.SetBudget(c.Request.Context(), userID, category, req.Amount); err != nil {
		handleServiceError(c, err)
		return
	}

	h.WS.BroadcastLedgerEvent(userID, "budget_updated")
	c.JSON(http.StatusOK, gin.H{"category": services.NormalizeCategory(category), "amount": req.Amount})
}

// List returns the user's budgets in insertion order.
func (h *BudgetHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entries, err := h.Service.Budgets(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Recalculate rebuilds every budget entry from scratch.
func (h *BudgetHandler) Recalculate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.Service.RecalculateAll(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	h.WS.BroadcastLedgerEvent(userID, "budget_recalculated")
	c.JSON(http.StatusOK, gin.H{"message": "Budgets recalculated"})
}
