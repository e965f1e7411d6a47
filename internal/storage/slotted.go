package storage

import (
	"fmt"

	"github.com/giraffedb/giraffesql/internal/bx"
)

// Header and slot field offsets. All multi-byte fields in a block are
// little-endian uint16.
const (
	offNumRecords = 0
	offEndFree    = 2
)

// SlottedPage packs variable-length records into one block. The slot
// directory grows from the low end (one 4-byte entry per record id),
// records are packed at the high end and grow downward.
//
//	+--------------------+ 0
//	| num_records (u16)  |
//	| end_free    (u16)  |
//	| slot 1: size, loc  |
//	| slot 2: size, loc  |
//	| ...                |
//	+--------------------+
//	|     free space     |
//	+--------------------+ <- end_free (last free byte)
//	|    record area     |
//	+--------------------+ BlockSize
//
// Record ids are 1-based and never reused; a deleted record leaves a
// tombstone slot with size = loc = 0. The canonical tombstone test is
// loc == 0.
type SlottedPage struct {
	BlockID uint32
	buf     []byte
}

// NewSlottedPage wraps a BlockSize buffer. When isNew is set the
// header is initialized for an empty block, otherwise the header is
// taken from the buffer as stored.
func NewSlottedPage(buf []byte, blockID uint32, isNew bool) (*SlottedPage, error) {
	if len(buf) != BlockSize {
		return nil, ErrWrongSize
	}
	p := &SlottedPage{BlockID: blockID, buf: buf}
	if isNew {
		p.setNumRecords(0)
		p.setEndFree(BlockSize - 1)
	}
	return p, nil
}

// Data exposes the raw block bytes for persisting.
func (p *SlottedPage) Data() []byte { return p.buf }

// ---- header and slot accessors ----

func (p *SlottedPage) numRecords() int     { return int(bx.U16At(p.buf, offNumRecords)) }
func (p *SlottedPage) setNumRecords(n int) { bx.PutU16At(p.buf, offNumRecords, uint16(n)) }

func (p *SlottedPage) endFree() int     { return int(bx.U16At(p.buf, offEndFree)) }
func (p *SlottedPage) setEndFree(n int) { bx.PutU16At(p.buf, offEndFree, uint16(n)) }

func (p *SlottedPage) slot(id int) (size, loc int) {
	return int(bx.U16At(p.buf, 4*id)), int(bx.U16At(p.buf, 4*id+2))
}

func (p *SlottedPage) setSlot(id, size, loc int) {
	bx.PutU16At(p.buf, 4*id, uint16(size))
	bx.PutU16At(p.buf, 4*id+2, uint16(loc))
}

func (p *SlottedPage) checkID(id uint16) error {
	if id == 0 || int(id) > p.numRecords() {
		return ErrInvalidRecordID
	}
	return nil
}

// hasRoom reports whether size more bytes fit, reserving room for the
// slot of a prospective new record and the header.
func (p *SlottedPage) hasRoom(size int) bool {
	return size <= p.endFree()-4*(p.numRecords()+2)
}

// ---- operations ----

// Add stores a new record and returns its id.
func (p *SlottedPage) Add(data []byte) (uint16, error) {
	if !p.hasRoom(len(data)) {
		return 0, ErrNoRoom
	}
	id := p.numRecords() + 1
	size := len(data)
	loc := p.endFree() - size + 1
	copy(p.buf[loc:loc+size], data)
	p.setNumRecords(id)
	p.setEndFree(loc - 1)
	p.setSlot(id, size, loc)
	return uint16(id), nil
}

// Get returns the record bytes, or (nil, nil) for a tombstone. The
// returned slice aliases the block buffer.
func (p *SlottedPage) Get(id uint16) ([]byte, error) {
	if err := p.checkID(id); err != nil {
		return nil, err
	}
	size, loc := p.slot(int(id))
	if loc == 0 {
		return nil, nil
	}
	return p.buf[loc : loc+size], nil
}

// Put replaces the record's bytes in place, sliding neighbours as
// needed. The record keeps its id; a following Get returns exactly
// data.
func (p *SlottedPage) Put(id uint16, data []byte) error {
	if err := p.checkID(id); err != nil {
		return err
	}
	size, loc := p.slot(int(id))
	if loc == 0 {
		return ErrInvalidRecordID
	}

	newSize := len(data)
	switch {
	case newSize == size:
		copy(p.buf[loc:loc+size], data)

	case newSize > size:
		extra := newSize - size
		if !p.hasRoom(extra) {
			return ErrNoRoom
		}
		// make room below the record, then write so the record still
		// ends at its old upper bound
		p.slide(loc-1, loc-1-extra)
		newLoc := loc - extra
		copy(p.buf[newLoc:newLoc+newSize], data)
		p.setSlot(int(id), newSize, newLoc)

	default: // newSize < size
		// write against the record's upper bound, then reclaim the
		// gap by sliding lower records up
		shrink := size - newSize
		newLoc := loc + shrink
		copy(p.buf[newLoc:newLoc+newSize], data)
		p.slide(loc-1, loc-1+shrink)
		p.setSlot(int(id), newSize, newLoc)
	}
	return nil
}

// Delete tombstones the record and reclaims its bytes. Deleting a
// tombstone is a no-op.
func (p *SlottedPage) Delete(id uint16) error {
	if err := p.checkID(id); err != nil {
		return err
	}
	size, loc := p.slot(int(id))
	if loc == 0 {
		return nil
	}
	p.setSlot(int(id), 0, 0)
	p.slide(loc-1, loc-1+size)
	return nil
}

// IDs returns the ascending ids of all live records.
func (p *SlottedPage) IDs() []uint16 {
	var ids []uint16
	for i := 1; i <= p.numRecords(); i++ {
		if _, loc := p.slot(i); loc != 0 {
			ids = append(ids, uint16(i))
		}
	}
	return ids
}

// FreeSpace reports how many bytes a new record may occupy.
func (p *SlottedPage) FreeSpace() int {
	n := p.endFree() - 4*(p.numRecords()+2)
	if n < 0 {
		return 0
	}
	return n
}

// slide shifts the record-area bytes in (end_free, start] by
// shift := end - start, rewrites loc for every live slot with
// loc <= start, and moves end_free by the same amount. A negative
// shift moves records toward the low end (making room), a positive
// shift moves them toward the high end (reclaiming). Zero is a no-op.
func (p *SlottedPage) slide(start, end int) {
	shift := end - start
	if shift == 0 {
		return
	}
	ef := p.endFree()
	n := start - ef
	if n > 0 {
		copy(p.buf[ef+1+shift:start+1+shift], p.buf[ef+1:start+1])
	}
	for i := 1; i <= p.numRecords(); i++ {
		size, loc := p.slot(i)
		if loc == 0 || loc > start {
			continue
		}
		p.setSlot(i, size, loc+shift)
	}
	p.setEndFree(ef + shift)
}

// DebugString summarizes the header and slot directory.
func (p *SlottedPage) DebugString() string {
	s := fmt.Sprintf("block %d: num_records=%d end_free=%d live=%d",
		p.BlockID, p.numRecords(), p.endFree(), len(p.IDs()))
	return s
}
