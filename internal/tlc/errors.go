package tlc

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the single error kind of the simulation core. It
// covers absent compound input, malformed tick labels and invalid values on
// an explicit compound update.
var ErrInvalidArgument = errors.New("tlc: invalid argument")

// ArgumentError wraps ErrInvalidArgument with the operation and field that
// rejected the value.
type ArgumentError struct {
	Op     string
	Field  string
	Value  any
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: %s %v: %s", e.Op, e.Field, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Invalid builds an ArgumentError.
func Invalid(op, field string, value any, reason string) error {
	return &ArgumentError{Op: op, Field: field, Value: value, Reason: reason}
}
