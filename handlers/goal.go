package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/services"
)

type GoalHandler struct {
	Service *services.GoalService
}

func (h *GoalHandler) Add(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.AddGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.Service.AddGoal(c.Request.Context(), userID, req.Amount, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goals, err := h.Service.Goals(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}
