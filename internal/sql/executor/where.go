package executor

import (
	"fmt"

	"github.com/giraffedb/giraffesql/internal/record"
	"github.com/giraffedb/giraffesql/internal/sql/parser"
)

// whereConjunction flattens a where expression into the predicate row
// the plan's Select consumes. Only a conjunction of column = literal
// is accepted; either side of an AND may be absent. A nil expression
// yields a nil predicate.
func whereConjunction(expr parser.Expr, schema record.Schema) (record.Row, error) {
	if expr == nil {
		return nil, nil
	}

	bin, ok := expr.(*parser.BinaryExpr)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected operator in where clause", ErrParseShape)
	}

	switch bin.Op {
	case "AND":
		pred := make(record.Row)
		left, err := whereConjunction(bin.Left, schema)
		if err != nil {
			return nil, err
		}
		for k, v := range left {
			pred[k] = v
		}
		right, err := whereConjunction(bin.Right, schema)
		if err != nil {
			return nil, err
		}
		for k, v := range right {
			pred[k] = v
		}
		return pred, nil

	case "=":
		col, ok := bin.Left.(*parser.ColumnRef)
		if !ok {
			return nil, fmt.Errorf("%w: left side of '=' must be a column", ErrParseShape)
		}
		if !schema.HasColumn(col.Name) {
			return nil, fmt.Errorf("%w: unknown column '%s' in where clause", ErrNotFound, col.Name)
		}
		lit, ok := bin.Right.(*parser.LiteralExpr)
		if !ok {
			return nil, fmt.Errorf("%w: right side of '=' must be a literal", ErrParseShape)
		}
		v, err := literalValue(lit)
		if err != nil {
			return nil, err
		}
		return record.Row{col.Name: v}, nil

	default:
		return nil, fmt.Errorf("%w: only equality predicates joined by AND", ErrUnsupported)
	}
}

func literalValue(lit *parser.LiteralExpr) (record.Value, error) {
	switch v := lit.Value.(type) {
	case int64:
		return record.NewInt(int32(v)), nil
	case string:
		return record.NewText(v), nil
	default:
		return record.Value{}, fmt.Errorf("%w: literal %v", ErrUnsupported, lit.Value)
	}
}
