// Package ws pushes attempt snapshots to websocket clients and accepts
// flips from them.
package ws

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"twinclash/internal/game"
)

// AttemptManager is the part of the live manager the hub drives.
type AttemptManager interface {
	Snapshot(id string) (game.Snapshot, error)
	Flip(id string, cardID int) (game.Snapshot, bool, error)
	Freeze(id string) (game.Snapshot, bool, error)
	Reveal(id string, percent int) (game.Snapshot, int, error)
}

type Hub struct {
	mu       sync.Mutex
	attempts map[string]map[*websocket.Conn]struct{}
	manager  AttemptManager
	logger   *log.Logger
}

func NewHub(manager AttemptManager, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		attempts: make(map[string]map[*websocket.Conn]struct{}),
		manager:  manager,
		logger:   logger,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

type message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (h *Hub) HandleWS(c *gin.Context) {
	attemptID := c.Query("attempt_id")
	if attemptID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing attempt_id"})
		return
	}
	snap, err := h.manager.Snapshot(attemptID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.logger.Debug("websocket connected", "attempt", attemptID)

	h.mu.Lock()
	if _, ok := h.attempts[attemptID]; !ok {
		h.attempts[attemptID] = make(map[*websocket.Conn]struct{})
	}
	h.attempts[attemptID][conn] = struct{}{}
	h.send(conn, "snapshot", snap)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.attempts[attemptID], conn)
		if len(h.attempts[attemptID]) == 0 {
			delete(h.attempts, attemptID)
		}
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			h.logger.Debug("websocket closed", "attempt", attemptID, "error", err)
			return
		}
		h.handle(attemptID, msg)
	}
}

func (h *Hub) handle(attemptID string, msg message) {
	var err error
	switch msg.Action {
	case "flip":
		var req struct {
			CardID int `json:"cardId"`
		}
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			_, _, err = h.manager.Flip(attemptID, req.CardID)
		}
	case "freeze":
		_, _, err = h.manager.Freeze(attemptID)
	case "reveal":
		var req struct {
			Percent int `json:"percent"`
		}
		if len(msg.Data) > 0 {
			err = json.Unmarshal(msg.Data, &req)
		}
		if err == nil {
			_, _, err = h.manager.Reveal(attemptID, req.Percent)
		}
	default:
		h.logger.Warn("unknown action", "action", msg.Action)
		return
	}
	if err != nil {
		h.logger.Warn("action failed", "action", msg.Action, "attempt", attemptID, "error", err)
	}
}

// Broadcast sends {"action","data"} to every client watching the attempt.
func (h *Hub) Broadcast(attemptID string, action string, data any) {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.attempts[attemptID] {
		h.send(conn, action, data)
	}
}

// send writes one message; h.mu must be held. A failed client is dropped.
func (h *Hub) send(conn *websocket.Conn, action string, data any) {
	if err := conn.WriteJSON(gin.H{"action": action, "data": data}); err != nil {
		h.logger.Warn("failed to send message", "error", err)
		conn.Close()
		for _, clients := range h.attempts {
			delete(clients, conn)
		}
	}
}

// Clients reports how many connections watch the attempt.
func (h *Hub) Clients(attemptID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.attempts[attemptID])
}
