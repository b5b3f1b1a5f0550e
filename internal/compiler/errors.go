package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/ndbq/internal/syntax"
	"github.com/roach88/ndbq/internal/token"
)

// ErrParameterCountMismatch is returned when the parameter count propagated
// through the tree disagrees with the registrations the domain saw. It
// indicates a bug in the compiler or a domain, never bad input.
var ErrParameterCountMismatch = errors.New("parameter count mismatch")

// ResolutionCode categorizes leaf resolution failures.
type ResolutionCode string

const (
	// CodeUnknownColumn indicates the column does not exist on the table.
	CodeUnknownColumn ResolutionCode = "UNKNOWN_COLUMN"

	// CodeUnsupportedComparator indicates the column type cannot be
	// compared with the given comparator.
	CodeUnsupportedComparator ResolutionCode = "UNSUPPORTED_COMPARATOR"

	// CodeTypeMismatch indicates a literal operand of the wrong type.
	CodeTypeMismatch ResolutionCode = "TYPE_MISMATCH"

	// CodeParameterOutOfRange indicates a parameter that was never registered.
	CodeParameterOutOfRange ResolutionCode = "PARAMETER_OUT_OF_RANGE"
)

// ResolutionError reports a leaf condition the domain could not resolve.
// Compile returns it unchanged apart from filling in Pos.
type ResolutionError struct {
	Code       ResolutionCode
	Column     string
	Comparator syntax.Comparator
	Message    string

	// Pos is the position of the offending condition, when the tree came
	// from the parser.
	Pos token.Pos
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsResolutionError returns true if err is or wraps a *ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// ResolutionCodeOf returns the code of a wrapped *ResolutionError.
func ResolutionCodeOf(err error) (ResolutionCode, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}
