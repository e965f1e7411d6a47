// Package bx holds the byte-order helpers shared by the slotted page
// and the row codec. All on-disk integers in giraffesql are
// little-endian; the big-endian helpers exist for the wire protocol.
package bx

import "encoding/binary"

var (
	LE = binary.LittleEndian
	BE = binary.BigEndian
)

// --- LE: read ---
func U16(b []byte) uint16 { return LE.Uint16(b) }
func U32(b []byte) uint32 { return LE.Uint32(b) }
func I32(b []byte) int32  { return int32(U32(b)) }

// --- LE: write ---
func PutU16(b []byte, v uint16) { LE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }

// --- LE: At (offset) ---
func U16At(b []byte, off int) uint16       { return U16(b[off:]) }
func PutU16At(b []byte, off int, v uint16) { PutU16(b[off:], v) }

// --- BE (frame headers) ---
func U32BE(b []byte) uint32       { return BE.Uint32(b) }
func PutU32BE(b []byte, v uint32) { BE.PutUint32(b, v) }
