package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/audio-analyzer/internal/domain"
)

// ErrorHandler maps handler errors to status codes and a JSON {"error": "..."} body.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, domain.ErrValidation):
			code = fiber.StatusBadRequest
		case errors.Is(err, domain.ErrTranscriptionFailed):
			code = fiber.StatusBadGateway
		}

		switch {
		case code >= fiber.StatusInternalServerError:
			log.Error("Request failed", zap.Error(err), zap.Int("status", code), zap.String("path", c.Path()))
		case code >= fiber.StatusBadRequest:
			log.Debug("Request rejected", zap.Error(err), zap.Int("status", code), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
