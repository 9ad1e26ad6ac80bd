// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Sentinel errors for the engine's failure taxonomy. Storage corruption is
// deliberately absent: malformed documents degrade to empty at the store
// layer and never cross a package boundary.
var (
	// ErrNotFound marks a missing document or profile.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks input rejected at the boundary: empty message
	// text, an invalid profile draft, or a self-directed like.
	ErrValidation = errors.New("validation failed")
)

// NotFound wraps ErrNotFound with context.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Validation wraps ErrValidation with a reason.
func Validation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrValidation)
}

// StatusCode converts domain/infra errors into an HTTP status code.
// Keeps handlers clean by centralizing error mapping.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		// 499 Client Closed Request (nginx convention)
		return 499

	default:
		return http.StatusInternalServerError
	}
}
