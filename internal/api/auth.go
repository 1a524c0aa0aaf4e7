package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/Simple2B/bidhive-ml-api/internal/auth"
	"github.com/Simple2B/bidhive-ml-api/internal/config"
)

// RegisterAuthRoutes wires the token exchange endpoints.
func RegisterAuthRoutes(app fiber.Router, cfg *config.Config) {
	app.Post("/auth/tokens", tokensHandler(cfg))
	app.Post("/auth/refresh-token", refreshTokenHandler(cfg))
}

// tokensHandler exchanges the shared API secret plus a user identity for an
// access/refresh token pair.
func tokensHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			UserInfo  auth.UserInfo `json:"user_info"`
			SecretKey string        `json:"secret_key"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		if subtle.ConstantTimeCompare([]byte(req.SecretKey), []byte(cfg.APISecretKey)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Secret key is incorrect",
			})
		}

		accessToken, err := auth.CreateAccessToken(cfg, req.UserInfo)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		refreshToken, err := auth.CreateRefreshToken(cfg, req.UserInfo)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	}
}

// refreshTokenHandler issues a new access token for a valid refresh token.
// A tampered or expired refresh token gets a 400 and no token.
func refreshTokenHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		accessToken, err := auth.VerifyRefreshToken(cfg, req.RefreshToken)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Incorrect refresh token",
			})
		}

		return c.JSON(fiber.Map{
			"access_token": accessToken,
		})
	}
}
