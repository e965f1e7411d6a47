package eval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giraffedb/giraffesql/internal/heap"
	"github.com/giraffedb/giraffesql/internal/record"
)

func newPlanTable(t *testing.T) *heap.Table {
	t.Helper()
	schema := record.Schema{Cols: []record.Column{
		{Name: "a", Type: record.ColInt32},
		{Name: "b", Type: record.ColText},
	}}
	tbl := heap.NewTable(t.TempDir(), "plan", schema)
	require.NoError(t, tbl.Create())
	t.Cleanup(func() { _ = tbl.Close() })

	for i := 1; i <= 5; i++ {
		_, err := tbl.Insert(record.Row{
			"a": record.NewInt(int32(i)),
			"b": record.NewText(fmt.Sprintf("row-%d", i%2)),
		})
		require.NoError(t, err)
	}
	return tbl
}

func TestTableScanPipeline(t *testing.T) {
	tbl := newPlanTable(t)

	_, handles, err := (&TableScan{Table: tbl}).Pipeline()
	require.NoError(t, err)
	assert.Len(t, handles, 5)
}

func TestSelectFilters(t *testing.T) {
	tbl := newPlanTable(t)

	plan := &Select{
		Where: record.Row{"b": record.NewText("row-1")},
		Child: &TableScan{Table: tbl},
	}
	table, handles, err := plan.Pipeline()
	require.NoError(t, err)
	assert.Len(t, handles, 3) // a in {1,3,5}
	for _, h := range handles {
		row, err := table.Project(h, nil)
		require.NoError(t, err)
		assert.Equal(t, int32(1), row["a"].Int%2)
	}

	// conjunction: both keys must match
	plan = &Select{
		Where: record.Row{
			"a": record.NewInt(3),
			"b": record.NewText("row-1"),
		},
		Child: &TableScan{Table: tbl},
	}
	_, handles, err = plan.Pipeline()
	require.NoError(t, err)
	assert.Len(t, handles, 1)

	// cross-variant equality is false
	plan = &Select{
		Where: record.Row{"a": record.NewText("3")},
		Child: &TableScan{Table: tbl},
	}
	_, handles, err = plan.Pipeline()
	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestEvaluateProjects(t *testing.T) {
	tbl := newPlanTable(t)

	plan := &Project{
		Columns: []string{"a"},
		Child: &Select{
			Where: record.Row{"b": record.NewText("row-0")},
			Child: &TableScan{Table: tbl},
		},
	}
	rows, err := Evaluate(plan)
	require.NoError(t, err)
	assert.Len(t, rows, 2) // a in {2,4}
	for _, row := range rows {
		assert.Len(t, row, 1)
		assert.Equal(t, int32(0), row["a"].Int%2)
	}

	_, err = Evaluate(&TableScan{Table: tbl})
	require.ErrorIs(t, err, ErrNotProjection)
}

func TestOptimizeSinksSelect(t *testing.T) {
	tbl := newPlanTable(t)

	plan := Optimize(&Select{
		Where: record.Row{"a": record.NewInt(2)},
		Child: &Project{
			Columns: []string{"b"},
			Child:   &TableScan{Table: tbl},
		},
	})

	proj, ok := plan.(*Project)
	require.True(t, ok, "select must sink below project")
	sel, ok := proj.Child.(*Select)
	require.True(t, ok)
	_, ok = sel.Child.(*TableScan)
	require.True(t, ok)

	rows, err := Evaluate(plan)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0]["b"].Equal(record.NewText("row-0")))

	// an already-pushed plan is unchanged
	pushed := Optimize(&Project{Columns: []string{"a"}, Child: &Select{
		Where: record.Row{"a": record.NewInt(2)},
		Child: &TableScan{Table: tbl},
	}})
	_, ok = pushed.(*Project)
	require.True(t, ok)
}
