package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for parsing and running simulations.
var (
	// ErrMalformedLine indicates an input line lacking a coordinate field
	// or carrying a non-integer value.
	ErrMalformedLine = errors.New("dynamo: malformed moon line")

	// ErrEmptyInput indicates the input produced no bodies.
	ErrEmptyInput = errors.New("dynamo: no moons in input")

	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")
)

// LineError wraps a parse failure with the 1-based line it occurred on.
type LineError struct {
	Line    int
	Text    string
	Wrapped error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Wrapped)
}

func (e *LineError) Unwrap() error {
	return e.Wrapped
}
