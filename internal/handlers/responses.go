package handlers

import (
	"errors"
	"fmt"
	"log"

	"bytestore/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error onto the API's failure shape: a status code
// plus an errors array. Not-found maps to 404, every other expected failure
// kind is the caller's fault (400); anything unexpected is logged and hidden
// behind a generic 500.
func writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"errors": []string{err.Error()},
		})
	}

	if errors.Is(err, apperrors.ErrDuplicateName) ||
		errors.Is(err, apperrors.ErrEmailTaken) ||
		errors.Is(err, apperrors.ErrConcurrencyConflict) ||
		errors.Is(err, apperrors.ErrHasDependentOrders) ||
		errors.Is(err, apperrors.ErrUnauthorized) ||
		errors.Is(err, apperrors.ErrInvalidCredentials) ||
		apperrors.IsInsufficientStock(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []string{err.Error()},
		})
	}

	log.Printf("Unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"errors": []string{"An unexpected error occurred"},
	})
}

// writeValidationErrors renders validator failures as an errors array.
func writeValidationErrors(c *fiber.Ctx, err error) error {
	var messages []string
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
	} else {
		messages = append(messages, err.Error())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": messages,
	})
}

func writeBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": []string{message},
	})
}
