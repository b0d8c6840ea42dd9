package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// bindingError turns a gin binding failure into an error response. Field
// validation failures are reported per field.
func bindingError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		}
	}

	return ErrorResponse{
		Error:   "Validation failed",
		Message: fmt.Sprintf("%d field(s) failed validation", len(verrs)),
		Details: formatValidationErrors(verrs),
	}
}

// formatValidationErrors maps each failing field to a readable message
func formatValidationErrors(verrs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details[field] = "is required"
		case "email":
			details[field] = "must be a valid email address"
		case "min":
			details[field] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			details[field] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "oneof":
			details[field] = fmt.Sprintf("must be one of: %s", fe.Param())
		default:
			details[field] = fmt.Sprintf("failed the %q check", fe.Tag())
		}
	}
	return details
}
