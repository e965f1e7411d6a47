package executor

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/giraffedb/giraffesql/internal/catalog"
	"github.com/giraffedb/giraffesql/internal/heap"
	"github.com/giraffedb/giraffesql/internal/record"
	"github.com/giraffedb/giraffesql/internal/sql/eval"
	"github.com/giraffedb/giraffesql/internal/sql/parser"
)

var (
	ErrNotFound    = errors.New("executor: no such table, column, or index")
	ErrConflict    = errors.New("executor: conflicting catalog state")
	ErrUnsupported = errors.New("executor: not implemented")
	ErrParseShape  = errors.New("executor: unexpected statement shape")
)

// Executor dispatches parsed statements against the catalog and the
// evaluation pipeline.
type Executor struct {
	cat *catalog.Catalog
}

func NewExecutor(cat *catalog.Catalog) *Executor {
	return &Executor{cat: cat}
}

// ExecSQL is the top-level entry: SQL string -> Result.
func (e *Executor) ExecSQL(sql string) (*Result, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	return e.Execute(stmt)
}

// Execute runs one parsed statement.
func (e *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.createTable(s)
	case *parser.CreateIndexStmt:
		return e.createIndex(s)
	case *parser.DropTableStmt:
		return e.dropTable(s)
	case *parser.DropIndexStmt:
		return e.dropIndex(s)
	case *parser.ShowStmt:
		return e.show(s)
	case *parser.InsertStmt:
		return e.insert(s)
	case *parser.DeleteStmt:
		return e.delete(s)
	case *parser.SelectStmt:
		return e.selectFrom(s)
	default:
		return nil, fmt.Errorf("%w: statement type %T", ErrUnsupported, stmt)
	}
}

// undoStack collects compensation closures for multi-step schema
// mutations. rollback runs them in reverse and swallows their errors
// so the original failure is what surfaces.
type undoStack []func() error

func (u undoStack) rollback() {
	for i := len(u) - 1; i >= 0; i-- {
		if err := u[i](); err != nil {
			log.WithError(err).Warn("compensation step failed")
		}
	}
}

func columnType(sqlType string) (record.DataType, error) {
	switch sqlType {
	case "INT", "INTEGER":
		return record.ColInt32, nil
	case "TEXT":
		return record.ColText, nil
	default:
		return 0, fmt.Errorf("%w: column type %s", ErrUnsupported, sqlType)
	}
}

func (e *Executor) createTable(s *parser.CreateTableStmt) (*Result, error) {
	var cols []record.Column
	for _, def := range s.Columns {
		t, err := columnType(def.Type)
		if err != nil {
			return nil, err
		}
		cols = append(cols, record.Column{Name: def.Name, Type: t})
	}

	exists, err := e.cat.TableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if exists {
		if s.IfNotExists {
			return message("created " + s.TableName), nil
		}
		return nil, fmt.Errorf("%w: table '%s' already exists", ErrConflict, s.TableName)
	}

	var undo undoStack

	tHandle, err := e.cat.Tables().Insert(record.Row{
		"table_name": record.NewText(s.TableName),
	})
	if err != nil {
		return nil, err
	}
	undo = append(undo, func() error { return e.cat.Tables().Delete(tHandle) })

	for _, col := range cols {
		cHandle, err := e.cat.Columns().Insert(record.Row{
			"table_name":  record.NewText(s.TableName),
			"column_name": record.NewText(col.Name),
			"data_type":   record.NewText(catalog.DataTypeName(col.Type)),
		})
		if err != nil {
			undo.rollback()
			return nil, err
		}
		undo = append(undo, func() error { return e.cat.Columns().Delete(cHandle) })
	}

	table, err := e.cat.GetTable(s.TableName)
	if err == nil {
		if s.IfNotExists {
			err = table.CreateIfNotExists()
		} else {
			err = table.Create()
		}
	}
	if err != nil {
		e.cat.Forget(s.TableName)
		undo.rollback()
		return nil, err
	}

	return message("created " + s.TableName), nil
}

func (e *Executor) createIndex(s *parser.CreateIndexStmt) (*Result, error) {
	table, err := e.lookupTable(s.TableName)
	if err != nil {
		return nil, err
	}
	for _, col := range s.Columns {
		if !table.Schema.HasColumn(col) {
			return nil, fmt.Errorf("%w: column '%s' does not exist in %s",
				ErrNotFound, col, s.TableName)
		}
	}

	exists, err := e.cat.IndexExists(s.TableName, s.IndexName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: index '%s' already exists on %s",
			ErrConflict, s.IndexName, s.TableName)
	}

	// assume BTREE indices are unique, HASH are not
	isUnique := int32(0)
	if s.IndexType == "BTREE" {
		isUnique = 1
	}

	var undo undoStack
	for seq, col := range s.Columns {
		h, err := e.cat.Indices().Insert(record.Row{
			"table_name":   record.NewText(s.TableName),
			"index_name":   record.NewText(s.IndexName),
			"seq_in_index": record.NewInt(int32(seq + 1)),
			"column_name":  record.NewText(col),
			"index_type":   record.NewText(s.IndexType),
			"is_unique":    record.NewInt(isUnique),
		})
		if err != nil {
			undo.rollback()
			return nil, err
		}
		undo = append(undo, func() error { return e.cat.Indices().Delete(h) })
	}

	index := e.cat.GetIndex(s.TableName, s.IndexName)
	if err := index.Create(); err != nil {
		if dropErr := index.Drop(); dropErr != nil {
			log.WithError(dropErr).Warn("index drop during compensation failed")
		}
		undo.rollback()
		return nil, err
	}

	return message("created index " + s.IndexName), nil
}

func (e *Executor) dropTable(s *parser.DropTableStmt) (*Result, error) {
	if name := s.TableName; name == catalog.TablesName ||
		name == catalog.ColumnsName || name == catalog.IndicesName {
		return nil, fmt.Errorf("%w: cannot drop a schema table", ErrConflict)
	}

	// resolve the relation before touching the catalog rows that
	// describe it
	table, err := e.lookupTable(s.TableName)
	if err != nil {
		return nil, err
	}

	where := record.Row{"table_name": record.NewText(s.TableName)}

	indexNames, err := e.cat.GetIndexNames(s.TableName)
	if err != nil {
		return nil, err
	}
	for _, name := range indexNames {
		if err := e.cat.GetIndex(s.TableName, name).Drop(); err != nil {
			return nil, err
		}
	}
	if err := e.deleteWhere(e.cat.Indices(), where); err != nil {
		return nil, err
	}

	if err := e.deleteWhere(e.cat.Columns(), where); err != nil {
		return nil, err
	}

	// data-drop happens between the catalog reads above and the
	// _tables deletion below; this order is part of the contract
	if err := table.Drop(); err != nil {
		return nil, err
	}
	e.cat.Forget(s.TableName)

	if err := e.deleteWhere(e.cat.Tables(), where); err != nil {
		return nil, err
	}

	return message("dropped " + s.TableName), nil
}

func (e *Executor) dropIndex(s *parser.DropIndexStmt) (*Result, error) {
	exists, err := e.cat.IndexExists(s.TableName, s.IndexName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: index '%s' on %s", ErrNotFound, s.IndexName, s.TableName)
	}

	if err := e.cat.GetIndex(s.TableName, s.IndexName).Drop(); err != nil {
		return nil, err
	}

	where := record.Row{
		"table_name": record.NewText(s.TableName),
		"index_name": record.NewText(s.IndexName),
	}
	if err := e.deleteWhere(e.cat.Indices(), where); err != nil {
		return nil, err
	}

	return message("dropped index " + s.IndexName), nil
}

func (e *Executor) insert(s *parser.InsertStmt) (*Result, error) {
	table, err := e.lookupTable(s.TableName)
	if err != nil {
		return nil, err
	}

	all := table.Schema.ColumnNames()
	columns := s.Columns
	if columns == nil {
		columns = all
	} else {
		if len(columns) != len(all) {
			return nil, fmt.Errorf("%w: don't know how to handle NULLs, defaults, etc. yet",
				ErrUnsupported)
		}
		for _, col := range columns {
			if !table.Schema.HasColumn(col) {
				return nil, fmt.Errorf("%w: invalid column name '%s'", ErrNotFound, col)
			}
		}
	}

	indexNames, err := e.cat.GetIndexNames(s.TableName)
	if err != nil {
		return nil, err
	}

	inserted := 0
	for _, group := range s.Rows {
		if len(group) != len(columns) {
			return nil, fmt.Errorf("%w: %d values for %d columns",
				ErrParseShape, len(group), len(columns))
		}
		row := make(record.Row, len(columns))
		for i, expr := range group {
			lit, ok := expr.(*parser.LiteralExpr)
			if !ok {
				return nil, fmt.Errorf("%w: insert value must be a literal", ErrParseShape)
			}
			v, err := literalValue(lit)
			if err != nil {
				return nil, err
			}
			row[columns[i]] = v
		}

		handle, err := table.Insert(row)
		if err != nil {
			return nil, err
		}
		for _, name := range indexNames {
			if err := e.cat.GetIndex(s.TableName, name).Insert(handle); err != nil {
				return nil, err
			}
		}
		inserted++
	}

	return message(fmt.Sprintf("successfully inserted %d row(s) into %s and %d indices",
		inserted, s.TableName, len(indexNames))), nil
}

func (e *Executor) delete(s *parser.DeleteStmt) (*Result, error) {
	table, err := e.lookupTable(s.TableName)
	if err != nil {
		return nil, err
	}

	where, err := whereConjunction(s.Where, table.Schema)
	if err != nil {
		return nil, err
	}

	var plan eval.Node = &eval.TableScan{Table: table}
	if where != nil {
		plan = &eval.Select{Where: where, Child: plan}
	}
	plan = eval.Optimize(plan)

	_, handles, err := plan.Pipeline()
	if err != nil {
		return nil, err
	}

	indexNames, err := e.cat.GetIndexNames(s.TableName)
	if err != nil {
		return nil, err
	}
	for _, handle := range handles {
		for _, name := range indexNames {
			if err := e.cat.GetIndex(s.TableName, name).Delete(handle); err != nil {
				return nil, err
			}
		}
	}
	for _, handle := range handles {
		if err := table.Delete(handle); err != nil {
			return nil, err
		}
	}

	return message(fmt.Sprintf("successfully deleted %d rows from %s and %d indices",
		len(handles), s.TableName, len(indexNames))), nil
}

func (e *Executor) selectFrom(s *parser.SelectStmt) (*Result, error) {
	table, err := e.lookupTable(s.TableName)
	if err != nil {
		return nil, err
	}

	where, err := whereConjunction(s.Where, table.Schema)
	if err != nil {
		return nil, err
	}

	columns := s.Columns
	if s.Star {
		columns = table.Schema.ColumnNames()
	} else {
		for _, col := range columns {
			if !table.Schema.HasColumn(col) {
				return nil, fmt.Errorf("%w: unknown column '%s'", ErrNotFound, col)
			}
		}
	}

	var plan eval.Node = &eval.TableScan{Table: table}
	if where != nil {
		plan = &eval.Select{Where: where, Child: plan}
	}
	plan = eval.Optimize(&eval.Project{Columns: columns, Child: plan})

	rows, err := eval.Evaluate(plan)
	if err != nil {
		return nil, err
	}

	return &Result{
		Columns:    columns,
		Attributes: table.Schema.AttributesFor(columns),
		Rows:       rows,
		Message:    fmt.Sprintf("successfully returned %d rows", len(rows)),
	}, nil
}

func (e *Executor) show(s *parser.ShowStmt) (*Result, error) {
	switch s.Kind {
	case parser.ShowTables:
		rows, err := e.cat.ShowTables()
		if err != nil {
			return nil, err
		}
		return &Result{
			Columns:    []string{"table_name"},
			Attributes: []record.DataType{record.ColText},
			Rows:       rows,
			Message:    fmt.Sprintf("successfully returned %d rows", len(rows)),
		}, nil

	case parser.ShowColumns:
		rows, err := e.cat.ShowColumns(s.TableName)
		if err != nil {
			return nil, err
		}
		return &Result{
			Columns:    []string{"table_name", "column_name", "data_type"},
			Attributes: []record.DataType{record.ColText, record.ColText, record.ColText},
			Rows:       rows,
			Message:    fmt.Sprintf("successfully returned %d rows", len(rows)),
		}, nil

	case parser.ShowIndex:
		rows, err := e.cat.ShowIndex(s.TableName)
		if err != nil {
			return nil, err
		}
		return &Result{
			Columns: []string{
				"table_name", "index_name", "column_name",
				"seq_in_index", "index_type", "is_unique",
			},
			Attributes: []record.DataType{
				record.ColText, record.ColText, record.ColText,
				record.ColInt32, record.ColText, record.ColBool,
			},
			Rows:    rows,
			Message: fmt.Sprintf("successfully returned %d rows", len(rows)),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unrecognized SHOW kind", ErrParseShape)
	}
}

// lookupTable resolves a user table, mapping catalog misses to
// ErrNotFound.
func (e *Executor) lookupTable(name string) (*heap.Table, error) {
	exists, err := e.cat.TableExists(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: table '%s' does not exist", ErrNotFound, name)
	}
	table, err := e.cat.GetTable(name)
	if err != nil {
		if errors.Is(err, catalog.ErrNoSuchTable) {
			return nil, fmt.Errorf("%w: table '%s' does not exist", ErrNotFound, name)
		}
		return nil, err
	}
	return table, nil
}

// deleteWhere removes every row of t matching where.
func (e *Executor) deleteWhere(t *heap.Table, where record.Row) error {
	plan := &eval.Select{Where: where, Child: &eval.TableScan{Table: t}}
	_, handles, err := plan.Pipeline()
	if err != nil {
		return err
	}
	for _, h := range handles {
		if err := t.Delete(h); err != nil {
			return err
		}
	}
	return nil
}
