// Package handlers contains the HTTP handlers of the status server
package handlers

import (
	"fmt"

	"github.com/amirphl/card-transactions-generator/app/dto"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// ErrorResponse writes the standard failure envelope
func ErrorResponse(c fiber.Ctx, statusCode int, message, code string, details any) error {
	return c.Status(statusCode).JSON(dto.NewErrorResponse(message, code, requestid.FromContext(c), details))
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
