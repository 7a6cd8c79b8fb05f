package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/services"
)

type SessionHandler struct {
	Service *services.SessionService
}

type sessionStateRequest struct {
	State services.SessionState `json:"state" binding:"required"`
}

// GetState returns the user's current conversation state.
func (h *SessionHandler) GetState(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.Service.Current(userID)})
}

// PutState moves the user's conversation state machine.
func (h *SessionHandler) PutState(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req sessionStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Transition(userID, req.State); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.Service.Current(userID)})
}
