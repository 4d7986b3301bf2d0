package slidedom

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the object model. Callers match them with errors.Is.
var (
	// ErrNotFound reports a missing id or name, or a shape of the wrong kind.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState reports use of a removed object or an operation the
	// shape kind does not support.
	ErrInvalidState = errors.New("invalid state")
	// ErrInconsistentDocument reports a broken slide/layout/master/theme chain
	// or a style lookup that no link could answer.
	ErrInconsistentDocument = errors.New("inconsistent document")
	// ErrFormat reports malformed input such as a bad hex color.
	ErrFormat = errors.New("format error")
)

var errOutOfRange = fmt.Errorf("index out of range: %w", ErrNotFound)

// ValidationError lists every structural problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Unwrap makes a ValidationError match ErrInconsistentDocument.
func (e *ValidationError) Unwrap() error { return ErrInconsistentDocument }
