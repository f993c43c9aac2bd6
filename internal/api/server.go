package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/config"
	wsinternal "github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

// NewServer wires the HTTP surface: authenticated write operations plus the
// live-delivery stream upgrade.
func NewServer(cfg *config.Config, h *Handler, wsHandler *wsinternal.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	v1 := app.Group("/v1")
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authed := v1.Group("/", RequireAuth(cfg.JWT.Secret))

	authed.Post("/conversations", h.createConversation)
	authed.Get("/conversations", h.listConversations)
	authed.Post("/conversations/:id/read", h.markConversationRead)
	authed.Delete("/conversations/:id", h.deleteConversation)

	authed.Post("/conversations/:id/messages", h.sendMessage)
	authed.Get("/conversations/:id/messages", h.listMessages)

	authed.Patch("/messages/:id", h.editMessage)
	authed.Delete("/messages/:id", h.deleteMessage)
	authed.Post("/messages/:id/reactions", h.addReaction)
	authed.Delete("/messages/:id/reactions/:emoji", h.removeReaction)

	authed.Get("/notifications", h.listNotifications)

	authed.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	authed.Get("/ws", websocket.New(wsHandler.Handle))

	return app
}
