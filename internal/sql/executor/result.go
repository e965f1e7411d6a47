package executor

import (
	"strings"

	"github.com/giraffedb/giraffesql/internal/record"
)

// Result is the query result returned to the caller. Column metadata
// and rows are present for SELECT/SHOW; every statement carries a
// message. The result owns its slices.
type Result struct {
	Columns    []string          `json:"columns,omitempty"`
	Attributes []record.DataType `json:"attributes,omitempty"`
	Rows       []record.Row      `json:"rows,omitempty"`
	Message    string            `json:"message"`
}

func message(msg string) *Result {
	return &Result{Message: msg}
}

// String renders the result the way the REPL prints it: the column
// names, a rule, one line per row with values separated by spaces,
// then the message.
func (r *Result) String() string {
	var b strings.Builder
	if r.Columns != nil {
		for _, name := range r.Columns {
			b.WriteString(name)
			b.WriteByte(' ')
		}
		b.WriteString("\n+")
		for range r.Columns {
			b.WriteString("----------+")
		}
		b.WriteByte('\n')
		for _, row := range r.Rows {
			for _, name := range r.Columns {
				b.WriteString(row[name].String())
				b.WriteByte(' ')
			}
			b.WriteByte('\n')
		}
	}
	b.WriteString(r.Message)
	return b.String()
}
