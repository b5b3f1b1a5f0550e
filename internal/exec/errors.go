package exec

import (
	"errors"
	"fmt"

	"github.com/roach88/ndbq/internal/compiler"
	"github.com/roach88/ndbq/internal/domain"
	"github.com/roach88/ndbq/internal/parser"
	"github.com/roach88/ndbq/internal/syntax"
)

// ErrorCode categorizes execution errors.
type ErrorCode string

const (
	// ErrCodeUnknownTable indicates the target table is not in the catalog.
	ErrCodeUnknownTable ErrorCode = "UNKNOWN_TABLE"

	// ErrCodeRowLimit indicates a result exceeded the configured row limit.
	ErrCodeRowLimit ErrorCode = "ROW_LIMIT_EXCEEDED"
)

// Error is an execution failure not covered by the parser, compiler or
// binder error types.
type Error struct {
	Code    ErrorCode
	Message string
	QueryID string
	Table   string
}

func (e *Error) Error() string {
	if e.QueryID != "" {
		return fmt.Sprintf("%s: %s (query=%s)", e.Code, e.Message, e.QueryID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownTableError returns true if err is or wraps an unknown table error.
func IsUnknownTableError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeUnknownTable
}

// IsRowLimitError returns true if err is or wraps a row limit error.
func IsRowLimitError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeRowLimit
}

func unknownTable(name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownTable,
		Message: fmt.Sprintf("table %q is not defined", name),
		Table:   name,
	}
}

// Codes for errors raised outside this package.
const (
	CodeSyntax        = "SYNTAX_ERROR"
	CodeMalformedTree = "MALFORMED_TREE"
	CodeParamCount    = "PARAMETER_COUNT_MISMATCH"
	CodeBind          = "BIND_ERROR"
	CodeInternal      = "ERROR"
)

// CodeOf classifies an error from any stage of preparing or executing
// a query. It returns "" for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return string(e.Code)
	}
	if code, ok := compiler.ResolutionCodeOf(err); ok {
		return string(code)
	}

	switch {
	case parser.IsSyntaxError(err):
		return CodeSyntax
	case syntax.IsStructuralError(err):
		return CodeMalformedTree
	case errors.Is(err, compiler.ErrParameterCountMismatch):
		return CodeParamCount
	case domain.IsBindError(err):
		return CodeBind
	default:
		return CodeInternal
	}
}
