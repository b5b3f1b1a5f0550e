package parser

import (
	"errors"
	"fmt"

	"github.com/roach88/ndbq/internal/token"
)

// SyntaxError reports malformed filter text.
type SyntaxError struct {
	Pos     token.Pos
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
}

// IsSyntaxError returns true if err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}
