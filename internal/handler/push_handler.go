package handler

import (
	"ai-assistant-be/internal/pkg/logger"
	internalWS "ai-assistant-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// PushHandler exposes the websocket endpoint that streams assistant replies
// to connected clients.
type PushHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewPushHandler(hub *internalWS.Hub, log logger.ILogger) *PushHandler {
	return &PushHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs upgrades the connection and attaches it to the hub.
func (h *PushHandler) ServeWs(c *fiber.Ctx) error {
	ownerId := c.Query("owner_id")
	if ownerId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "owner_id is required"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("PushHandler", "Starting WebSocket session", map[string]interface{}{"owner_id": ownerId})
			internalWS.ServeWs(h.hub, conn, ownerId)
			h.logger.Info("PushHandler", "WebSocket session ended", map[string]interface{}{"owner_id": ownerId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *PushHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
