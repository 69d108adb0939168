package middleware

import (
	"github.com/benbeisheim/chessduo-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid WebSocket connection attempts.
// It also checks that a well-formed room id and a player id are present before allowing the upgrade.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		roomID := service.NormalizeRoomID(utils.CopyString(c.Params("roomId")))
		if !service.ValidRoomID(roomID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "a valid room ID is required",
			})
		}

		if PlayerID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		// The connection context is different from the upgrade context, so
		// carry the ids across in Locals.
		c.Locals("wsRoomID", roomID)
		return c.Next()
	}
}
