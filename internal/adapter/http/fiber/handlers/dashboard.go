package handlers

import (
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	ws "github.com/seu-repo/takeaway-voice/internal/adapter/websocket"
)

// DashboardHandler upgrades staff dashboard connections onto the event
// hub so new orders and escalations stream in live.
type DashboardHandler struct {
	hub *ws.Hub
	log *zap.Logger
}

func NewDashboardHandler(hub *ws.Hub, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		hub: hub,
		log: log,
	}
}

// Upgrade rejects non-websocket requests before the upgrade handler runs.
func (h *DashboardHandler) Upgrade(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream attaches the upgraded connection to the hub.
func (h *DashboardHandler) Stream() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		h.log.Debug("Dashboard client connected", zap.String("remote", conn.RemoteAddr().String()))
		h.hub.AddClient(conn)
	})
}
