package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/audio-analyzer/pkg/config"
)

// NewCORS creates a CORS middleware from application config. Browsers upload audio
// directly, so only GET, POST and preflight requests are allowed by default.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	allowedOrigins := joinOr(cfg.AllowedOrigins, "*")

	// Fiber refuses credentials together with a wildcard origin
	credentials := cfg.Credentials && allowedOrigins != "*"

	return fibercors.New(fibercors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     joinOr(cfg.AllowedMethods, "GET,POST,OPTIONS"),
		AllowHeaders:     joinOr(cfg.AllowedHeaders, "Origin,Content-Type,Accept,X-Request-ID"),
		ExposeHeaders:    joinOr(cfg.ExposeHeaders, "X-Request-ID"),
		AllowCredentials: credentials,
		MaxAge:           maxAgeOr(cfg.MaxAge, 86400),
	})
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ",")
}

func maxAgeOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
