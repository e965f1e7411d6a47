// Package eval implements the relational evaluation pipeline:
// TableScan -> Select -> Project. Plans terminate two ways: Pipeline
// yields the relation and matching handles (DELETE), Evaluate yields
// projected rows (SELECT).
package eval

import (
	"errors"

	"github.com/giraffedb/giraffesql/internal/heap"
	"github.com/giraffedb/giraffesql/internal/record"
)

var (
	ErrNotProjection = errors.New("eval: evaluate requires a projection root")
)

// Node is one plan operator.
type Node interface {
	// Pipeline returns the underlying relation and the handles this
	// subtree selects.
	Pipeline() (*heap.Table, []heap.TID, error)
}

// TableScan yields every handle in the relation.
type TableScan struct {
	Table *heap.Table
}

func (s *TableScan) Pipeline() (*heap.Table, []heap.TID, error) {
	handles, err := s.Table.Select()
	return s.Table, handles, err
}

// Select yields the child's handles whose rows equal Where on every
// key. Equality is per Value variant; any mismatch fails the row.
type Select struct {
	Where record.Row
	Child Node
}

func (s *Select) Pipeline() (*heap.Table, []heap.TID, error) {
	table, handles, err := s.Child.Pipeline()
	if err != nil {
		return nil, nil, err
	}
	var out []heap.TID
	for _, h := range handles {
		row, err := table.Project(h, nil)
		if err != nil {
			return nil, nil, err
		}
		if matches(row, s.Where) {
			out = append(out, h)
		}
	}
	return table, out, nil
}

func matches(row, where record.Row) bool {
	for col, want := range where {
		got, ok := row[col]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Project turns handles into rows restricted to Columns. Pipeline
// passes through; the projection applies at Evaluate time.
type Project struct {
	Columns []string
	Child   Node
}

func (p *Project) Pipeline() (*heap.Table, []heap.TID, error) {
	return p.Child.Pipeline()
}

// Evaluate runs the plan and materializes the projected rows. Only a
// Project root evaluates.
func Evaluate(n Node) ([]record.Row, error) {
	proj, ok := n.(*Project)
	if !ok {
		return nil, ErrNotProjection
	}
	table, handles, err := proj.Child.Pipeline()
	if err != nil {
		return nil, err
	}
	rows := make([]record.Row, 0, len(handles))
	for _, h := range handles {
		row, err := table.Project(h, proj.Columns)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Optimize applies the single rewrite rule: a Select sitting on a
// Project sinks below it, so predicates run before materialization.
// Safe because Select only references columns of the underlying
// relation.
func Optimize(n Node) Node {
	switch v := n.(type) {
	case *Select:
		if proj, ok := v.Child.(*Project); ok {
			return &Project{
				Columns: proj.Columns,
				Child:   Optimize(&Select{Where: v.Where, Child: proj.Child}),
			}
		}
		v.Child = Optimize(v.Child)
		return v
	case *Project:
		v.Child = Optimize(v.Child)
		return v
	default:
		return n
	}
}
