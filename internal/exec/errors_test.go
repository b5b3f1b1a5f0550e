package exec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/ndbq/internal/compiler"
	"github.com/roach88/ndbq/internal/domain"
	"github.com/roach88/ndbq/internal/parser"
)

func TestCodeOf(t *testing.T) {
	_, syntaxErr := parser.Parse("a = ")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"syntax", syntaxErr, CodeSyntax},
		{"resolution", fmt.Errorf("wrapped: %w", &compiler.ResolutionError{Code: compiler.CodeTypeMismatch}), "TYPE_MISMATCH"},
		{"count", fmt.Errorf("%w: 1 vs 2", compiler.ErrParameterCountMismatch), CodeParamCount},
		{"bind", &domain.BindError{Index: -1, Message: "x"}, CodeBind},
		{"unknown table", unknownTable("T"), "UNKNOWN_TABLE"},
		{"other", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Code: ErrCodeRowLimit, Message: "too many", QueryID: "q-1"}
	assert.Equal(t, "ROW_LIMIT_EXCEEDED: too many (query=q-1)", err.Error())
	assert.Equal(t, `UNKNOWN_TABLE: table "T" is not defined`, unknownTable("T").Error())
}
