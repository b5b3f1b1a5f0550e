package domain

import (
	"errors"
	"fmt"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
)

// Query is a compiled filter ready for execution. Arguments are bound per
// execution; the Query itself is immutable and may be shared.
type Query struct {
	Select *queryir.Select
	Params []ParamSpec
}

// ParamCount returns the number of arguments the query expects.
func (q *Query) ParamCount() int {
	return len(q.Params)
}

// BindError reports an argument that does not fit its parameter.
type BindError struct {
	Index   int
	Name    string
	Message string
}

func (e *BindError) Error() string {
	if e.Index < 0 {
		return "bind: " + e.Message
	}
	if e.Name != "" {
		return fmt.Sprintf("bind parameter %d (:%s): %s", e.Index, e.Name, e.Message)
	}
	return fmt.Sprintf("bind parameter %d: %s", e.Index, e.Message)
}

// IsBindError returns true if err is or wraps a *BindError.
func IsBindError(err error) bool {
	var be *BindError
	return errors.As(err, &be)
}

// Bind checks positional arguments against the parameters and returns them
// in binding order. NULL is accepted for any parameter.
func (q *Query) Bind(args ...ir.IRValue) ([]ir.IRValue, error) {
	if len(args) != len(q.Params) {
		return nil, &BindError{
			Index:   -1,
			Message: fmt.Sprintf("query expects %d arguments, got %d", len(q.Params), len(args)),
		}
	}

	out := make([]ir.IRValue, len(args))
	for i, arg := range args {
		if err := q.check(q.Params[i], arg); err != nil {
			return nil, err
		}
		if arg == nil {
			arg = ir.IRNull{}
		}
		out[i] = arg
	}
	return out, nil
}

// BindNamed fills named parameters from named and the remaining positional
// parameters, in order, from positional. Every named parameter must have a
// value and every positional value must be used.
func (q *Query) BindNamed(named map[string]ir.IRValue, positional ...ir.IRValue) ([]ir.IRValue, error) {
	args := make([]ir.IRValue, len(q.Params))
	next := 0
	for i, spec := range q.Params {
		if spec.Name != "" {
			v, ok := named[spec.Name]
			if !ok {
				return nil, &BindError{Index: i, Name: spec.Name, Message: "no value supplied"}
			}
			args[i] = v
			continue
		}
		if next >= len(positional) {
			return nil, &BindError{Index: i, Message: "no positional value supplied"}
		}
		args[i] = positional[next]
		next++
	}
	if next != len(positional) {
		return nil, &BindError{
			Index:   -1,
			Message: fmt.Sprintf("%d positional arguments supplied, %d used", len(positional), next),
		}
	}
	return q.Bind(args...)
}

// BindStrings parses command line arguments according to each parameter's
// column type, then binds them. "null" (any case) binds NULL.
func (q *Query) BindStrings(args []string) ([]ir.IRValue, error) {
	if len(args) != len(q.Params) {
		return nil, &BindError{
			Index:   -1,
			Message: fmt.Sprintf("query expects %d arguments, got %d", len(q.Params), len(args)),
		}
	}
	values := make([]ir.IRValue, len(args))
	for i, s := range args {
		v, err := ir.ParseScalar(q.Params[i].Type.Kind(), s)
		if err != nil {
			return nil, &BindError{Index: i, Name: q.Params[i].Name, Message: err.Error()}
		}
		values[i] = v
	}
	return q.Bind(values...)
}

func (q *Query) check(spec ParamSpec, arg ir.IRValue) error {
	if ir.IsNull(arg) {
		return nil
	}
	if got, want := ir.KindOf(arg), spec.Type.Kind(); got != want {
		return &BindError{
			Index:   spec.Index,
			Name:    spec.Name,
			Message: fmt.Sprintf("%s expects %s, got %s", spec.Column, want, got),
		}
	}
	return nil
}
