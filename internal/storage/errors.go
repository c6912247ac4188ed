package storage

import "errors"

// ErrNotFound reports an id with no matching row. It is a control-flow
// signal for the handlers, not a persistence failure.
var ErrNotFound = errors.New("todo not found")

// ValidationError rejects malformed input before it reaches the database.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
