package storage

import (
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// HeapFile manages the ordered block set of one relation, stored in a
// RecnoFile named "<name>.db". Blocks are ids 1..last; block 1 is
// created at file creation and always exists.
type HeapFile struct {
	Name   string
	Dir    string
	last   uint32
	closed bool
	rf     *RecnoFile
}

func NewHeapFile(dir, name string) *HeapFile {
	return &HeapFile{Name: name, Dir: dir, closed: true}
}

func (hf *HeapFile) path() string {
	return filepath.Join(hf.Dir, hf.Name+DBFileExt)
}

// Create opens the backing file exclusively and writes the first
// empty block so BlockIDs is never empty.
func (hf *HeapFile) Create() error {
	rf, err := CreateRecnoFile(hf.path())
	if err != nil {
		return err
	}
	hf.rf = rf
	hf.closed = false
	hf.last = 0
	if _, err := hf.GetNew(); err != nil {
		return err
	}
	log.WithField("file", hf.path()).Debug("heap file created")
	return nil
}

// Open opens the existing backing file and reads the block count.
// Idempotent when already open.
func (hf *HeapFile) Open() error {
	if !hf.closed {
		return nil
	}
	rf, err := OpenRecnoFile(hf.path())
	if err != nil {
		return err
	}
	last, err := rf.Stat()
	if err != nil {
		_ = rf.Close()
		return err
	}
	hf.rf = rf
	hf.last = last
	hf.closed = false
	return nil
}

// Close is idempotent.
func (hf *HeapFile) Close() error {
	if hf.closed {
		return nil
	}
	hf.closed = true
	if hf.rf == nil {
		return nil
	}
	return hf.rf.Close()
}

// Drop closes the heap file and removes its backing file.
func (hf *HeapFile) Drop() error {
	if hf.closed && hf.rf == nil {
		// never opened in this process: bind to the file so Remove
		// can unlink it
		rf, err := OpenRecnoFile(hf.path())
		if err != nil {
			return err
		}
		hf.rf = rf
	}
	hf.closed = true
	err := hf.rf.Remove()
	hf.rf = nil
	return err
}

// GetNew allocates a fresh zeroed block with id last+1, persists it,
// and returns a slotted-page view initialized as new.
func (hf *HeapFile) GetNew() (*SlottedPage, error) {
	if hf.closed {
		return nil, ErrFileClosed
	}
	buf := make([]byte, BlockSize)
	hf.last++
	page, err := NewSlottedPage(buf, hf.last, true)
	if err != nil {
		return nil, err
	}
	if err := hf.rf.Put(hf.last, page.Data()); err != nil {
		hf.last--
		return nil, err
	}
	return page, nil
}

// Get loads the stored block as a slotted-page view.
func (hf *HeapFile) Get(blockID uint32) (*SlottedPage, error) {
	if hf.closed {
		return nil, ErrFileClosed
	}
	if blockID == 0 || blockID > hf.last {
		return nil, errors.Wrapf(ErrInvalidBlockID, "block %d of %s", blockID, hf.Name)
	}
	buf, err := hf.rf.Get(blockID)
	if err != nil {
		return nil, err
	}
	return NewSlottedPage(buf, blockID, false)
}

// Put persists the given block under its id.
func (hf *HeapFile) Put(page *SlottedPage) error {
	if hf.closed {
		return ErrFileClosed
	}
	return hf.rf.Put(page.BlockID, page.Data())
}

// BlockIDs returns the ascending sequence 1..last.
func (hf *HeapFile) BlockIDs() []uint32 {
	ids := make([]uint32, 0, hf.last)
	for i := uint32(1); i <= hf.last; i++ {
		ids = append(ids, i)
	}
	return ids
}

func (hf *HeapFile) LastBlockID() uint32 { return hf.last }
