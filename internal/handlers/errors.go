package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"therawking/internal/apperrors"
)

// statusFromError maps the service error taxonomy to HTTP status codes.
// Gateway rejections surface as 400 with the provider's detail, matching the
// behavior callers already rely on.
func statusFromError(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return fiber.StatusNotFound
	case apperrors.IsValidation(err):
		return fiber.StatusBadRequest
	case apperrors.IsPaymentGateway(err):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidSignature):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
