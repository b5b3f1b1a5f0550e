package queryir

// Operands returns the operands of a leaf predicate in textual order.
// Combinators have none.
func Operands(p Predicate) []Operand {
	switch pred := p.(type) {
	case *Compare:
		return []Operand{pred.Value}
	case *Between:
		return []Operand{pred.Lower, pred.Upper}
	case *In:
		return pred.Values
	case *Like:
		return []Operand{pred.Pattern}
	default:
		return nil
	}
}

// Children returns the sub-predicates of a combinator.
func Children(p Predicate) []Predicate {
	switch pred := p.(type) {
	case *And:
		return pred.Predicates
	case *Or:
		return pred.Predicates
	case *Not:
		return []Predicate{pred.Predicate}
	default:
		return nil
	}
}

// Params returns every parameter in p in textual order.
func Params(p Predicate) []*Param {
	var params []*Param
	var walk func(Predicate)
	walk = func(p Predicate) {
		if p == nil {
			return
		}
		for _, op := range Operands(p) {
			if param, ok := op.(*Param); ok {
				params = append(params, param)
			}
		}
		for _, child := range Children(p) {
			walk(child)
		}
	}
	walk(p)
	return params
}
