package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/studyset-api/internal/domain"
	"github.com/phrazzld/studyset-api/internal/service"
	"github.com/phrazzld/studyset-api/internal/service/auth"
	"github.com/phrazzld/studyset-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Authorization errors. Ownership gates every mutation, so a
	// non-owner hitting any write path lands here.
	case errors.Is(err, service.ErrSetNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrSetNotFound),
		errors.Is(err, domain.ErrCardNotFound):
		return http.StatusNotFound

	// Concurrency conflicts
	case errors.Is(err, service.ErrEditConflict),
		errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	// Repository deadline expiry surfaces as a gateway timeout
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	// Authorization errors
	case errors.Is(err, service.ErrSetNotOwned):
		return "You do not own this set"

	// Not found errors
	case errors.Is(err, store.ErrSetNotFound):
		return "Set not found"

	case errors.Is(err, domain.ErrCardNotFound):
		return "Card not found"

	// Concurrency conflicts
	case errors.Is(err, service.ErrEditConflict),
		errors.Is(err, store.ErrVersionConflict):
		return "The set was modified by another request; reload and retry"

	// Validation sentinels carry field-level messages that are already
	// safe to show.
	case domain.IsValidationError(err):
		return validationMessage(err)

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, context.DeadlineExceeded):
		return "The operation timed out"

	default:
		return "An unexpected error occurred"
	}
}

// validationMessage extracts the sentinel's own message from a wrapped
// validation error chain.
func validationMessage(err error) string {
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		if domain.IsValidationError(unwrapped) {
			err = unwrapped
		}
	}
	return err.Error()
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateSetRequest.Title' Error:Field validation for 'Title' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
