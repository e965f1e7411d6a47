package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE foo (a INT, b TEXT);")
	require.NoError(t, err)

	ct, ok := stmt.(*CreateTableStmt)
	require.True(t, ok)
	assert.Equal(t, "foo", ct.TableName)
	assert.False(t, ct.IfNotExists)
	require.Len(t, ct.Columns, 2)
	assert.Equal(t, ColumnDef{Name: "a", Type: "INT"}, ct.Columns[0])
	assert.Equal(t, ColumnDef{Name: "b", Type: "TEXT"}, ct.Columns[1])
}

func TestParseCreateTableIfNotExists(t *testing.T) {
	stmt, err := Parse("CREATE TABLE IF NOT EXISTS foo (a INT)")
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	assert.True(t, ct.IfNotExists)
	assert.Equal(t, "foo", ct.TableName)
}

func TestParseCreateIndex(t *testing.T) {
	stmt, err := Parse("CREATE INDEX ix ON foo (a, b)")
	require.NoError(t, err)

	ci, ok := stmt.(*CreateIndexStmt)
	require.True(t, ok)
	assert.Equal(t, "ix", ci.IndexName)
	assert.Equal(t, "foo", ci.TableName)
	assert.Equal(t, []string{"a", "b"}, ci.Columns)
	assert.Equal(t, "BTREE", ci.IndexType)

	stmt, err = Parse("CREATE INDEX ix ON foo (a) USING HASH")
	require.NoError(t, err)
	assert.Equal(t, "HASH", stmt.(*CreateIndexStmt).IndexType)
}

func TestParseDrop(t *testing.T) {
	stmt, err := Parse("DROP TABLE foo")
	require.NoError(t, err)
	assert.Equal(t, "foo", stmt.(*DropTableStmt).TableName)

	stmt, err = Parse("DROP INDEX ix ON foo")
	require.NoError(t, err)
	di := stmt.(*DropIndexStmt)
	assert.Equal(t, "ix", di.IndexName)
	assert.Equal(t, "foo", di.TableName)
}

func TestParseShow(t *testing.T) {
	stmt, err := Parse("SHOW TABLES")
	require.NoError(t, err)
	assert.Equal(t, ShowTables, stmt.(*ShowStmt).Kind)

	stmt, err = Parse("SHOW COLUMNS FROM foo")
	require.NoError(t, err)
	sh := stmt.(*ShowStmt)
	assert.Equal(t, ShowColumns, sh.Kind)
	assert.Equal(t, "foo", sh.TableName)

	stmt, err = Parse("SHOW INDEX FROM foo")
	require.NoError(t, err)
	assert.Equal(t, ShowIndex, stmt.(*ShowStmt).Kind)

	_, err = Parse("SHOW GRANTS")
	require.Error(t, err)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("INSERT INTO foo VALUES (12, 'Hello!')")
	require.NoError(t, err)

	in, ok := stmt.(*InsertStmt)
	require.True(t, ok)
	assert.Equal(t, "foo", in.TableName)
	assert.Nil(t, in.Columns)
	require.Len(t, in.Rows, 1)
	require.Len(t, in.Rows[0], 2)
	assert.Equal(t, int64(12), in.Rows[0][0].(*LiteralExpr).Value)
	assert.Equal(t, "Hello!", in.Rows[0][1].(*LiteralExpr).Value)
}

func TestParseInsertMultiRowWithColumns(t *testing.T) {
	stmt, err := Parse("INSERT INTO foo (a, b) VALUES (1, 'x'), (2, 'y, z')")
	require.NoError(t, err)

	in := stmt.(*InsertStmt)
	assert.Equal(t, []string{"a", "b"}, in.Columns)
	require.Len(t, in.Rows, 2)
	assert.Equal(t, "y, z", in.Rows[1][1].(*LiteralExpr).Value)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("DELETE FROM foo WHERE a = 2")
	require.NoError(t, err)

	del := stmt.(*DeleteStmt)
	assert.Equal(t, "foo", del.TableName)
	require.NotNil(t, del.Where)
	eq := del.Where.(*BinaryExpr)
	assert.Equal(t, "=", eq.Op)
	assert.Equal(t, "a", eq.Left.(*ColumnRef).Name)
	assert.Equal(t, int64(2), eq.Right.(*LiteralExpr).Value)

	stmt, err = Parse("DELETE FROM foo")
	require.NoError(t, err)
	assert.Nil(t, stmt.(*DeleteStmt).Where)
}

func TestParseSelect(t *testing.T) {
	stmt, err := Parse("SELECT * FROM foo")
	require.NoError(t, err)
	sel := stmt.(*SelectStmt)
	assert.True(t, sel.Star)
	assert.Nil(t, sel.Where)

	stmt, err = Parse("SELECT a, b FROM foo WHERE a = 1 AND b = 'x'")
	require.NoError(t, err)
	sel = stmt.(*SelectStmt)
	assert.False(t, sel.Star)
	assert.Equal(t, []string{"a", "b"}, sel.Columns)

	and := sel.Where.(*BinaryExpr)
	require.Equal(t, "AND", and.Op)
	left := and.Left.(*BinaryExpr)
	assert.Equal(t, "=", left.Op)
	assert.Equal(t, "a", left.Left.(*ColumnRef).Name)
	right := and.Right.(*BinaryExpr)
	assert.Equal(t, "=", right.Op)
	assert.Equal(t, "b", right.Left.(*ColumnRef).Name)
	assert.Equal(t, "x", right.Right.(*LiteralExpr).Value)
}

func TestParseErrors(t *testing.T) {
	for _, sql := range []string{
		"",
		";",
		"FROB everything",
		"CREATE TABLE (a INT)",
		"CREATE TABLE foo ()",
		"CREATE INDEX ix foo (a)",
		"INSERT INTO foo",
		"INSERT INTO foo VALUES",
		"SELECT * FROM foo WHERE a > 1",
		"SELECT a FROM",
	} {
		_, err := Parse(sql)
		assert.Error(t, err, "sql: %q", sql)
	}
}
