package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{Cols: []Column{
		{Name: "id", Type: ColInt32},
		{Name: "name", Type: ColText},
	}}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := testSchema()
	row := Row{
		"id":   NewInt(12),
		"name": NewText("Hello!"),
	}

	data, err := EncodeRow(s, row)
	require.NoError(t, err)
	// 4 bytes int + 2 bytes len + 6 bytes text
	assert.Len(t, data, 12)

	got, err := DecodeRow(s, data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, row["id"].Equal(got["id"]))
	assert.True(t, row["name"].Equal(got["name"]))
}

func TestEncodeNegativeInt(t *testing.T) {
	s := Schema{Cols: []Column{{Name: "n", Type: ColInt32}}}
	data, err := EncodeRow(s, Row{"n": NewInt(-42)})
	require.NoError(t, err)

	got, err := DecodeRow(s, data)
	require.NoError(t, err)
	assert.Equal(t, int32(-42), got["n"].Int)
}

func TestEncodeMissingColumn(t *testing.T) {
	s := testSchema()
	_, err := EncodeRow(s, Row{"id": NewInt(1)})
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestEncodeBoolUnsupported(t *testing.T) {
	s := Schema{Cols: []Column{{Name: "flag", Type: ColBool}}}
	_, err := EncodeRow(s, Row{"flag": NewBool(true)})
	require.ErrorIs(t, err, ErrMarshalUnsupported)
}

func TestDecodeShortBuffer(t *testing.T) {
	s := testSchema()
	_, err := DecodeRow(s, []byte{0x01, 0x00})
	require.ErrorIs(t, err, ErrBadBuffer)
}

func TestValueEquality(t *testing.T) {
	assert.True(t, NewInt(7).Equal(NewInt(7)))
	assert.False(t, NewInt(7).Equal(NewInt(8)))
	assert.True(t, NewText("x").Equal(NewText("x")))
	assert.False(t, NewText("x").Equal(NewText("y")))
	// cross-variant equality is always false
	assert.False(t, NewInt(1).Equal(NewText("1")))
	assert.False(t, NewBool(true).Equal(NewInt(1)))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "12", NewInt(12).String())
	assert.Equal(t, `"Hello!"`, NewText("Hello!").String())
	assert.Equal(t, "true", NewBool(true).String())
	assert.Equal(t, "false", NewBool(false).String())
}
