package content

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no entity matched the request.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or empty required field. It is checked
// eagerly, before any store call.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
