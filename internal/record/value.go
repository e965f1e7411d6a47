package record

import (
	"fmt"
	"strconv"
)

// Value is a tagged variant over the three column types. Only the
// field matching Type is meaningful.
type Value struct {
	Type DataType
	Int  int32
	Str  string
	Bool bool
}

func NewInt(n int32) Value   { return Value{Type: ColInt32, Int: n} }
func NewText(s string) Value { return Value{Type: ColText, Str: s} }
func NewBool(b bool) Value   { return Value{Type: ColBool, Bool: b} }

// Equal is variant-aware: values of different types never compare
// equal, same-type values compare their payloads.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ColInt32:
		return v.Int == o.Int
	case ColText:
		return v.Str == o.Str
	case ColBool:
		return v.Bool == o.Bool
	default:
		return false
	}
}

// String renders the value the way query results print it: INT bare,
// TEXT double-quoted, BOOL as true/false.
func (v Value) String() string {
	switch v.Type {
	case ColInt32:
		return strconv.FormatInt(int64(v.Int), 10)
	case ColText:
		return fmt.Sprintf("%q", v.Str)
	case ColBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "???"
	}
}

// Row maps column name to Value. Iteration order for marshalling is
// always the owning relation's column order, never the map's.
type Row map[string]Value
