package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/auth"
)

// RequireAuth resolves the authenticated user id into c.Locals("user_id").
// WebSocket clients cannot set headers from browsers, so a token query
// parameter is accepted as a fallback.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, err := auth.ParseBearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing credentials")
		}
		claims, err := auth.ParseAndValidateToken(secret, tokenStr)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
