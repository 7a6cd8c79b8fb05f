package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/services"
)

type ReminderHandler struct {
	Service *services.ReminderService
}

func (h *ReminderHandler) Add(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.AddReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.Service.AddReminder(c.Request.Context(), userID, req.Text, req.RemindAt)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Due hands the external job scheduler every reminder whose time has come.
func (h *ReminderHandler) Due(c *gin.Context) {
	reminders, err := h.Service.Due(c.Request.Context(), time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// MarkSent acknowledges a delivered reminder.
func (h *ReminderHandler) MarkSent(c *gin.Context) {
	if err := h.Service.MarkSent(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder acknowledged"})
}
