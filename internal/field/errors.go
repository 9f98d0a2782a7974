package field

import (
	"errors"
	"fmt"
)

// Domain errors for field operations.
var (
	// ErrInvalidParameter indicates malformed simulation parameters.
	ErrInvalidParameter = errors.New("field: invalid parameter")

	// ErrConfiguration indicates a degenerate sample grid or engine setup.
	ErrConfiguration = errors.New("field: invalid configuration")

	// ErrInvalidEnvelope indicates an empty or out-of-range amplitude envelope.
	ErrInvalidEnvelope = errors.New("field: invalid envelope")
)

// ParamError reports which parameter was rejected and why.
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

func invalidParam(field string, value any, reason string) error {
	return &ParamError{Field: field, Value: value, Reason: reason}
}
