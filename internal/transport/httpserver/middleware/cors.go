package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"store-search-service/internal/transport/httpserver/dto"
)

// CORS allows browser clients from origins, a comma-separated list or "*".
func CORS(origins string) fiber.Handler {
	if strings.TrimSpace(origins) == "" {
		origins = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodDelete, fiber.MethodOptions}, ","),
		AllowHeaders:  strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, dto.UserIDHeader, fiber.HeaderXRequestID}, ","),
		ExposeHeaders: fiber.HeaderXRequestID,
		MaxAge:        600,
	})
}
