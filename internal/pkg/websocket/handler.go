package websocket

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades requests to live feed connections.
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// ServeLive godoc
// @Summary Live event feed
// @Description Upgrades to a WebSocket that receives campus events as they are created, updated or deleted
// @Tags events, websocket
// @Param category query string false "Only receive events of this category"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /events/live [get]
func (h *Handler) ServeLive(c *gin.Context) {
	category := strings.ToUpper(strings.TrimSpace(c.Query("category")))

	// Upgrade writes its own error response on failure.
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		category: category,
		logger:   h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
