package statements

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned for mutations when the service runs read-only.
var ErrReadOnly = errors.New("mutations are disabled")

// ValidationError represents user-facing request problems.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new validation error.
func NewValidationError(format string, args ...interface{}) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}
