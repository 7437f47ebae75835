package middleware

import (
	"coursetrack/backend/config"
	"coursetrack/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// LocalUserID is the fiber.Locals key holding the authenticated learner id.
const LocalUserID = "userID"

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, err.Error())
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}
