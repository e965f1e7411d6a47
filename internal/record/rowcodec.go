package record

import (
	"errors"
	"math"

	"github.com/giraffedb/giraffesql/internal/bx"
)

var (
	ErrMissingColumn      = errors.New("record: row is missing a declared column")
	ErrMarshalUnsupported = errors.New("record: only know how to marshal INT and TEXT")
	ErrVarTooLong         = errors.New("record: text length exceeds u16")
	ErrBadBuffer          = errors.New("record: buffer underflow")
)

// EncodeRow emits the byte stream for one row, iterating the schema's
// column list in order. Format per column:
//
//	INT:  4 bytes, little-endian int32
//	TEXT: u16 length prefix (LE) + raw bytes
//
// The row must contain a value for every declared column.
func EncodeRow(s Schema, row Row) ([]byte, error) {
	out := make([]byte, 0, 64)
	for _, col := range s.Cols {
		v, ok := row[col.Name]
		if !ok {
			return nil, ErrMissingColumn
		}
		switch col.Type {
		case ColInt32:
			var b [4]byte
			bx.PutU32(b[:], uint32(v.Int))
			out = append(out, b[:]...)
		case ColText:
			bs := []byte(v.Str)
			if len(bs) > math.MaxUint16 {
				return nil, ErrVarTooLong
			}
			var l [2]byte
			bx.PutU16(l[:], uint16(len(bs)))
			out = append(out, l[:]...)
			out = append(out, bs...)
		default:
			return nil, ErrMarshalUnsupported
		}
	}
	return out, nil
}

// DecodeRow is the inverse of EncodeRow, driven by the same column
// list.
func DecodeRow(s Schema, data []byte) (Row, error) {
	row := make(Row, len(s.Cols))
	off := 0
	for _, col := range s.Cols {
		switch col.Type {
		case ColInt32:
			if off+4 > len(data) {
				return nil, ErrBadBuffer
			}
			row[col.Name] = NewInt(bx.I32(data[off:]))
			off += 4
		case ColText:
			if off+2 > len(data) {
				return nil, ErrBadBuffer
			}
			n := int(bx.U16(data[off:]))
			off += 2
			if off+n > len(data) {
				return nil, ErrBadBuffer
			}
			row[col.Name] = NewText(string(data[off : off+n]))
			off += n
		default:
			return nil, ErrMarshalUnsupported
		}
	}
	return row, nil
}
