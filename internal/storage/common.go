package storage

import "errors"

const (
	// BlockSize is the fixed on-disk block size. Every heap file is a
	// sequence of BlockSize-byte blocks keyed by 1-based block ids.
	BlockSize = 4096

	// HeaderSize is the slotted-page block header: num_records and
	// end_free, both little-endian uint16.
	HeaderSize = 4

	// SlotSize is one record entry in the slot directory: size and
	// loc, both little-endian uint16.
	SlotSize = 4

	// DBFileExt is appended to a heap file's name to form its backing
	// file name.
	DBFileExt = ".db"

	FileMode0644 = 0o644
)

var (
	ErrNoRoom          = errors.New("storage: not enough room for new record")
	ErrInvalidRecordID = errors.New("storage: invalid record id")
	ErrInvalidBlockID  = errors.New("storage: invalid block id")
	ErrWrongSize       = errors.New("storage: buffer size != BlockSize")
	ErrFileExists      = errors.New("storage: file already exists")
	ErrFileClosed      = errors.New("storage: file is closed")
)
