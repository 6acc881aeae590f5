package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"donor-finder/internal/domain"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmailUnsupported),
		errors.Is(err, domain.ErrNoRecipients):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"ok":    false,
		"error": err.Error(),
	})
}
