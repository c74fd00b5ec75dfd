package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-api/inkwell/internal/apierr"
	"github.com/inkwell-api/inkwell/internal/web/metrics"
)

// ErrorHandler renders every error as {"detail": "..."} with the status of its kind.
// Router errors keep their own status, unknown errors become a 500 without leaking their text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := apierr.Status(err)
	detail := apierr.Detail(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		detail = fe.Message
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	metrics.ObserveStatus(status)

	return c.Status(status).JSON(fiber.Map{"detail": detail})
}
