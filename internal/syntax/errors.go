package syntax

import (
	"errors"
	"fmt"

	"github.com/roach88/ndbq/internal/token"
)

// StructuralError reports a node constructed with the wrong number of
// children or operands. Trees built by the parser never produce one; it
// guards programmatic construction.
type StructuralError struct {
	// Tok is the token of the node that failed to build.
	Tok token.Token

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Tok.Pos.IsValid() {
		return fmt.Sprintf("malformed %s at %s: %s", e.Tok.Kind, e.Tok.Pos, e.Message)
	}
	return fmt.Sprintf("malformed %s: %s", e.Tok.Kind, e.Message)
}

// IsStructuralError returns true if err is or wraps a *StructuralError.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
