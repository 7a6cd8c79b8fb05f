package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/finassist/finance-bot-api/middleware"
)

// WSHandler pushes ledger events to connected presentation-layer sessions so
// an open menu can refresh when the same user mutates the ledger elsewhere.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 64 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Session disconnected for user: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and pins the session to the acting user.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

type ledgerEvent struct {
	Type   string `json:"type"`
	UserID int64  `json:"user_id"`
}

// BroadcastLedgerEvent signals every session of the given user.
func (h *WSHandler) BroadcastLedgerEvent(userID int64, eventType string) {
	msg, err := json.Marshal(ledgerEvent{Type: eventType, UserID: userID})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		v, ok := s.Get("user_id")
		return ok && v == userID
	})
	if err != nil {
		log.Printf("⚠️ Broadcast failed: %v", err)
	}
}
