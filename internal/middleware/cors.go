package middleware

import (
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func CORS(cfg *config.Config) fiber.Handler {
	// Credentials cannot be combined with a wildcard origin.
	allowCredentials := cfg.CORSCredentials && cfg.CORSOrigins != "*"
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: allowCredentials,
	})
}
