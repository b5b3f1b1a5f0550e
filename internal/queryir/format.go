package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/ndbq/internal/ir"
)

// Format renders a predicate as readable text. Parameters print as $index
// (or :name for named ones), literals in SQL syntax.
func Format(p Predicate) string {
	switch pred := p.(type) {
	case nil:
		return "TRUE"
	case *Compare:
		return fmt.Sprintf("%s %s %s", pred.Field, pred.Op, FormatOperand(pred.Value))
	case *Between:
		return fmt.Sprintf("%s BETWEEN %s AND %s", pred.Field, FormatOperand(pred.Lower), FormatOperand(pred.Upper))
	case *In:
		parts := make([]string, len(pred.Values))
		for i, v := range pred.Values {
			parts[i] = FormatOperand(v)
		}
		return fmt.Sprintf("%s IN (%s)", pred.Field, strings.Join(parts, ", "))
	case *Like:
		return fmt.Sprintf("%s LIKE %s", pred.Field, FormatOperand(pred.Pattern))
	case *IsNull:
		if pred.Negated {
			return pred.Field + " IS NOT NULL"
		}
		return pred.Field + " IS NULL"
	case *And:
		return formatJunction("AND", "TRUE", pred.Predicates)
	case *Or:
		return formatJunction("OR", "FALSE", pred.Predicates)
	case *Not:
		return "NOT " + Format(pred.Predicate)
	default:
		return fmt.Sprintf("<%T>", p)
	}
}

func formatJunction(op, empty string, preds []Predicate) string {
	if len(preds) == 0 {
		return empty
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = Format(p)
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

// FormatOperand renders a single operand.
func FormatOperand(o Operand) string {
	switch op := o.(type) {
	case *Literal:
		return ir.Literal(op.Value)
	case *Param:
		if op.Name != "" {
			return fmt.Sprintf("$%d:%s", op.Index, op.Name)
		}
		return fmt.Sprintf("$%d", op.Index)
	default:
		return fmt.Sprintf("<%T>", o)
	}
}

// Encode converts a predicate to an IR object for canonical JSON output.
//
// Shape:
//
//	{"op": "and", "args": [...]}
//	{"op": "=", "field": "salary", "value": {"param": 0}}
//	{"op": "in", "field": "dept", "values": [{"literal": "eng"}, ...]}
func Encode(p Predicate) ir.IRValue {
	switch pred := p.(type) {
	case nil:
		return ir.IRNull{}
	case *Compare:
		return ir.IRObject{"op": ir.IRString(pred.Op), "field": ir.IRString(pred.Field), "value": EncodeOperand(pred.Value)}
	case *Between:
		return ir.IRObject{"op": ir.IRString("between"), "field": ir.IRString(pred.Field),
			"lower": EncodeOperand(pred.Lower), "upper": EncodeOperand(pred.Upper)}
	case *In:
		values := make(ir.IRArray, len(pred.Values))
		for i, v := range pred.Values {
			values[i] = EncodeOperand(v)
		}
		return ir.IRObject{"op": ir.IRString("in"), "field": ir.IRString(pred.Field), "values": values}
	case *Like:
		return ir.IRObject{"op": ir.IRString("like"), "field": ir.IRString(pred.Field), "pattern": EncodeOperand(pred.Pattern)}
	case *IsNull:
		return ir.IRObject{"op": ir.IRString("is_null"), "field": ir.IRString(pred.Field), "negated": ir.IRBool(pred.Negated)}
	case *And:
		return ir.IRObject{"op": ir.IRString("and"), "args": encodeAll(pred.Predicates)}
	case *Or:
		return ir.IRObject{"op": ir.IRString("or"), "args": encodeAll(pred.Predicates)}
	case *Not:
		return ir.IRObject{"op": ir.IRString("not"), "arg": Encode(pred.Predicate)}
	default:
		return ir.IRString(fmt.Sprintf("<%T>", p))
	}
}

func encodeAll(preds []Predicate) ir.IRArray {
	out := make(ir.IRArray, len(preds))
	for i, p := range preds {
		out[i] = Encode(p)
	}
	return out
}

// EncodeOperand converts an operand to an IR object.
func EncodeOperand(o Operand) ir.IRValue {
	switch op := o.(type) {
	case *Literal:
		return ir.IRObject{"literal": op.Value}
	case *Param:
		obj := ir.IRObject{"param": ir.IRInt(op.Index)}
		if op.Name != "" {
			obj["name"] = ir.IRString(op.Name)
		}
		return obj
	default:
		return ir.IRNull{}
	}
}
