package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/services"
)

type DebtHandler struct {
	Service   *services.DebtService
	Analytics *services.AnalyticsService
	WS        *WSHandler
}

// Save records a new open debt line.
func (h *DebtHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.SaveDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.Service.SaveDebt(c.Request.Context(), userID, req.Debtor, req.Amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.WS.BroadcastLedgerEvent(userID, "debt_added")
	c.JSON(http.StatusCreated, d)
}

// Active lists the user's open debts.
func (h *DebtHandler) Active(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	debts, err := h.Service.ActiveDebts(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, debts)
}

// History lists all debts regardless of status, newest first.
func (h *DebtHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	debts, err := h.Service.DebtHistory(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, debts)
}

// Close transitions the exactly-matching open debt to closed.
func (h *DebtHandler) Close(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CloseDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.CloseDebt(c.Request.Context(), userID, req.Debtor, req.Amount); err != nil {
		handleServiceError(c, err)
		return
	}

	h.WS.BroadcastLedgerEvent(userID, "debt_closed")
	c.JSON(http.StatusOK, gin.H{"message": "Debt closed"})
}

// Settle bridges a debt into the transaction stream: "from" pays a debt the
// user owes out of the budget, "into" records a repayment received.
func (h *DebtHandler) Settle(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.SettleDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch req.Direction {
	case "from":
		err = h.Service.SettleFromBudget(c.Request.Context(), userID, req.Debtor, req.Amount)
	case "into":
		err = h.Service.SettleIntoBudget(c.Request.Context(), userID, req.Debtor, req.Amount)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be 'from' or 'into'"})
		return
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.Analytics.Invalidate(c.Request.Context(), userID)
	h.WS.BroadcastLedgerEvent(userID, "debt_settled")
	c.JSON(http.StatusOK, gin.H{"message": "Debt settled"})
}
