package catalog

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/giraffedb/giraffesql/internal/heap"
	"github.com/giraffedb/giraffesql/internal/record"
	"github.com/giraffedb/giraffesql/internal/sql/eval"
)

var (
	ErrNoSuchTable = errors.New("catalog: table does not exist")
	ErrNoSuchIndex = errors.New("catalog: index does not exist")
)

// Catalog owns the three self-describing meta-tables and hands out
// relations and indices by name. One Catalog is created at process
// start and threaded through the executor; there are no globals.
type Catalog struct {
	Dir string

	tables  *heap.Table
	columns *heap.Table
	indices *heap.Table

	userTables map[string]*heap.Table
	indexes    map[string]DbIndex
}

// NewCatalog builds the meta-tables in memory and bootstraps their
// backing files: created if absent, and on very first initialization
// seeded with the rows that describe the catalog itself. Bootstrap is
// idempotent.
func NewCatalog(dir string) (*Catalog, error) {
	c := &Catalog{
		Dir:        dir,
		tables:     heap.NewTable(dir, TablesName, tablesSchema()),
		columns:    heap.NewTable(dir, ColumnsName, columnsSchema()),
		indices:    heap.NewTable(dir, IndicesName, indicesSchema()),
		userTables: make(map[string]*heap.Table),
		indexes:    make(map[string]DbIndex),
	}
	if err := c.bootstrap(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) bootstrap() error {
	for _, t := range []*heap.Table{c.tables, c.columns, c.indices} {
		if err := t.CreateIfNotExists(); err != nil {
			return err
		}
	}

	seeded, err := c.tables.Select()
	if err != nil {
		return err
	}
	if len(seeded) > 0 {
		return nil
	}

	log.WithField("dir", c.Dir).Info("initializing schema catalog")
	for _, name := range []string{TablesName, ColumnsName, IndicesName} {
		if _, err := c.tables.Insert(record.Row{"table_name": record.NewText(name)}); err != nil {
			return err
		}
	}
	for _, sc := range seedColumns() {
		_, err := c.columns.Insert(record.Row{
			"table_name":  record.NewText(sc.table),
			"column_name": record.NewText(sc.column),
			"data_type":   record.NewText(sc.dataType),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the meta-tables and every cached user table.
func (c *Catalog) Close() error {
	var first error
	for _, t := range []*heap.Table{c.tables, c.columns, c.indices} {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
	}
	for _, t := range c.userTables {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Tables exposes the _tables relation.
func (c *Catalog) Tables() *heap.Table { return c.tables }

// Columns exposes the _columns relation.
func (c *Catalog) Columns() *heap.Table { return c.columns }

// Indices exposes the _indices relation.
func (c *Catalog) Indices() *heap.Table { return c.indices }

// selectWhere runs a Select(where, TableScan(t)) pipeline.
func selectWhere(t *heap.Table, where record.Row) ([]heap.TID, error) {
	var n eval.Node = &eval.TableScan{Table: t}
	if where != nil {
		n = &eval.Select{Where: where, Child: n}
	}
	_, handles, err := n.Pipeline()
	return handles, err
}

// projectAll projects every handle onto columns.
func projectAll(t *heap.Table, handles []heap.TID, columns []string) ([]record.Row, error) {
	rows := make([]record.Row, 0, len(handles))
	for _, h := range handles {
		row, err := t.Project(h, columns)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TableExists reports whether _tables has a row for name.
func (c *Catalog) TableExists(name string) (bool, error) {
	handles, err := selectWhere(c.tables, record.Row{"table_name": record.NewText(name)})
	if err != nil {
		return false, err
	}
	return len(handles) > 0, nil
}

// GetTable returns the relation for name: a meta-table, a cached user
// table, or one rebuilt from its _columns rows in stored order.
func (c *Catalog) GetTable(name string) (*heap.Table, error) {
	switch name {
	case TablesName:
		return c.tables, nil
	case ColumnsName:
		return c.columns, nil
	case IndicesName:
		return c.indices, nil
	}
	if t, ok := c.userTables[name]; ok {
		return t, nil
	}

	schema, err := c.tableSchema(name)
	if err != nil {
		return nil, err
	}
	t := heap.NewTable(c.Dir, name, schema)
	c.userTables[name] = t
	return t, nil
}

// tableSchema rebuilds a user table's schema from _columns. Heap scan
// order is insertion order, which is declaration order.
func (c *Catalog) tableSchema(name string) (record.Schema, error) {
	handles, err := selectWhere(c.columns, record.Row{"table_name": record.NewText(name)})
	if err != nil {
		return record.Schema{}, err
	}
	if len(handles) == 0 {
		return record.Schema{}, ErrNoSuchTable
	}
	var schema record.Schema
	for _, h := range handles {
		row, err := c.columns.Project(h, nil)
		if err != nil {
			return record.Schema{}, err
		}
		dt, ok := DataTypeFromName(row["data_type"].Str)
		if !ok {
			return record.Schema{}, errors.New("catalog: bad data_type in _columns: " + row["data_type"].Str)
		}
		schema.Cols = append(schema.Cols, record.Column{
			Name: row["column_name"].Str,
			Type: dt,
		})
	}
	return schema, nil
}

// Forget evicts a dropped table (and its indices) from the caches.
func (c *Catalog) Forget(name string) {
	if t, ok := c.userTables[name]; ok {
		_ = t.Close()
		delete(c.userTables, name)
	}
	for key := range c.indexes {
		if keyTable(key) == name {
			delete(c.indexes, key)
		}
	}
}

// ShowTables returns the _tables rows minus the three meta rows.
func (c *Catalog) ShowTables() ([]record.Row, error) {
	handles, err := c.tables.Select()
	if err != nil {
		return nil, err
	}
	rows := make([]record.Row, 0, len(handles))
	for _, h := range handles {
		row, err := c.tables.Project(h, []string{"table_name"})
		if err != nil {
			return nil, err
		}
		if isMetaTable(row["table_name"].Str) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ShowColumns returns the _columns rows for table.
func (c *Catalog) ShowColumns(table string) ([]record.Row, error) {
	handles, err := selectWhere(c.columns, record.Row{"table_name": record.NewText(table)})
	if err != nil {
		return nil, err
	}
	return projectAll(c.columns, handles, []string{"table_name", "column_name", "data_type"})
}

// ShowIndex returns the _indices rows for table, with is_unique
// surfaced as a Bool value.
func (c *Catalog) ShowIndex(table string) ([]record.Row, error) {
	handles, err := selectWhere(c.indices, record.Row{"table_name": record.NewText(table)})
	if err != nil {
		return nil, err
	}
	rows, err := projectAll(c.indices, handles, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		row["is_unique"] = record.NewBool(row["is_unique"].Int != 0)
	}
	return rows, nil
}

// GetIndexNames returns the distinct index names on table, ordered by
// first occurrence in _indices.
func (c *Catalog) GetIndexNames(table string) ([]string, error) {
	handles, err := selectWhere(c.indices, record.Row{"table_name": record.NewText(table)})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, h := range handles {
		row, err := c.indices.Project(h, []string{"index_name"})
		if err != nil {
			return nil, err
		}
		name := row["index_name"].Str
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// IndexExists reports whether _indices has rows for (table, index).
func (c *Catalog) IndexExists(table, index string) (bool, error) {
	handles, err := selectWhere(c.indices, record.Row{
		"table_name": record.NewText(table),
		"index_name": record.NewText(index),
	})
	if err != nil {
		return false, err
	}
	return len(handles) > 0, nil
}
