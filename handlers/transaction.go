package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/services"
)

type TransactionHandler struct {
	Service   *services.TransactionService
	Analytics *services.AnalyticsService
	WS        *WSHandler
}

// Add records a transaction and reconciles its budget category.
func (h *TransactionHandler) Add(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.Service.Add(c.Request.Context(), userID, req.Amount, req.Category, req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.Analytics.Invalidate(c.Request.Context(), userID)
	h.WS.BroadcastLedgerEvent(userID, "transaction_added")
	c.JSON(http.StatusCreated, t)
}

// Delete undoes a transaction by id.
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	h.Analytics.Invalidate(c.Request.Context(), userID)
	h.WS.BroadcastLedgerEvent(userID, "transaction_deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// History returns the most recent transactions.
func (h *TransactionHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	transactions, err := h.Service.History(c.Request.Context(), userID, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Filter returns transactions matching a category or type.
func (h *TransactionHandler) Filter(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	param := c.Query("param")
	if param == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "param query parameter is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	transactions, err := h.Service.Filter(c.Request.Context(), userID, param, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Last returns the user's most recent transaction.
func (h *TransactionHandler) Last(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	t, err := h.Service.Last(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
