package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Simple2B/bidhive-ml-api/internal/config"
)

const localsUserKey = "userInfo"

// Middleware verifies the "Authorization: JWT <token>" header and stores
// the caller identity in the request locals.
func Middleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated",
			})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "JWT") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Incorrect access token prefix",
			})
		}

		info, err := VerifyAccessToken(cfg, parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Incorrect access token",
			})
		}

		c.Locals(localsUserKey, info)
		return c.Next()
	}
}

// AdminOnly rejects callers whose token has no admin scope. Must run after
// Middleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, ok := c.Locals(localsUserKey).(UserInfo)
		if !ok || !info.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin scope required",
			})
		}
		return c.Next()
	}
}

// UserFromCtx returns the identity stored by Middleware.
func UserFromCtx(c *fiber.Ctx) UserInfo {
	info, _ := c.Locals(localsUserKey).(UserInfo)
	return info
}
