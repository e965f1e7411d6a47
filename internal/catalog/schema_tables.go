package catalog

import "github.com/giraffedb/giraffesql/internal/record"

// Meta-table names. The catalog describes itself: each of these is an
// ordinary heap table with a row in _tables and rows in _columns.
const (
	TablesName  = "_tables"
	ColumnsName = "_columns"
	IndicesName = "_indices"
)

func tablesSchema() record.Schema {
	return record.Schema{Cols: []record.Column{
		{Name: "table_name", Type: record.ColText},
	}}
}

func columnsSchema() record.Schema {
	return record.Schema{Cols: []record.Column{
		{Name: "table_name", Type: record.ColText},
		{Name: "column_name", Type: record.ColText},
		{Name: "data_type", Type: record.ColText},
	}}
}

// indicesSchema stores is_unique as INT: the row codec only handles
// INT and TEXT, and the Bool tag is catalog-only. ShowIndex converts
// it back on the way out.
func indicesSchema() record.Schema {
	return record.Schema{Cols: []record.Column{
		{Name: "table_name", Type: record.ColText},
		{Name: "index_name", Type: record.ColText},
		{Name: "seq_in_index", Type: record.ColInt32},
		{Name: "column_name", Type: record.ColText},
		{Name: "index_type", Type: record.ColText},
		{Name: "is_unique", Type: record.ColInt32},
	}}
}

func isMetaTable(name string) bool {
	return name == TablesName || name == ColumnsName || name == IndicesName
}

// DataTypeName maps a column type to the string stored in
// _columns.data_type.
func DataTypeName(t record.DataType) string {
	if t == record.ColInt32 {
		return "INT"
	}
	return "TEXT"
}

// DataTypeFromName is the inverse of DataTypeName.
func DataTypeFromName(s string) (record.DataType, bool) {
	switch s {
	case "INT":
		return record.ColInt32, true
	case "TEXT":
		return record.ColText, true
	default:
		return 0, false
	}
}

type seedColumn struct {
	table, column, dataType string
}

// seedColumns describes the meta-tables' own _columns rows, in
// declaration order.
func seedColumns() []seedColumn {
	var rows []seedColumn
	for _, s := range []struct {
		name   string
		schema record.Schema
	}{
		{TablesName, tablesSchema()},
		{ColumnsName, columnsSchema()},
		{IndicesName, indicesSchema()},
	} {
		for _, col := range s.schema.Cols {
			rows = append(rows, seedColumn{s.name, col.Name, DataTypeName(col.Type)})
		}
	}
	return rows
}
