package storage

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// RecnoFile is a persistent mapping from 1-based record numbers to
// fixed-size byte blocks, one file on disk. Block i lives at byte
// offset (i-1)*BlockSize. It never allocates on its own: appends are
// driven by the heap file's monotonic block counter.
type RecnoFile struct {
	Path string
	file *os.File
}

// CreateRecnoFile creates the backing file exclusively; it fails with
// ErrFileExists if the file is already present.
func CreateRecnoFile(path string) (*RecnoFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, FileMode0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Wrapf(ErrFileExists, "%s", path)
		}
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return &RecnoFile{Path: path, file: f}, nil
}

// OpenRecnoFile opens an existing backing file for read/write.
func OpenRecnoFile(path string) (*RecnoFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, FileMode0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &RecnoFile{Path: path, file: f}, nil
}

// Get reads block id into a fresh BlockSize buffer. Reads past the
// end of file are zero-filled so lazily initialized blocks come back
// empty rather than failing.
func (rf *RecnoFile) Get(id uint32) ([]byte, error) {
	if rf.file == nil {
		return nil, ErrFileClosed
	}
	if id == 0 {
		return nil, ErrInvalidBlockID
	}
	buf := make([]byte, BlockSize)
	n, err := rf.file.ReadAt(buf, int64(id-1)*BlockSize)
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read block %d of %s", id, rf.Path)
	}
	for i := n; i < BlockSize; i++ {
		buf[i] = 0
	}
	return buf, nil
}

// Put writes block id from src. src must be exactly BlockSize bytes.
func (rf *RecnoFile) Put(id uint32, src []byte) error {
	if rf.file == nil {
		return ErrFileClosed
	}
	if id == 0 {
		return ErrInvalidBlockID
	}
	if len(src) != BlockSize {
		return ErrWrongSize
	}
	if _, err := rf.file.WriteAt(src, int64(id-1)*BlockSize); err != nil {
		return errors.Wrapf(err, "write block %d of %s", id, rf.Path)
	}
	return nil
}

// Stat reports the number of whole blocks currently stored.
func (rf *RecnoFile) Stat() (uint32, error) {
	if rf.file == nil {
		return 0, ErrFileClosed
	}
	fi, err := rf.file.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", rf.Path)
	}
	return uint32(fi.Size() / BlockSize), nil
}

// Close is idempotent.
func (rf *RecnoFile) Close() error {
	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	if err != nil {
		return errors.Wrapf(err, "close %s", rf.Path)
	}
	return nil
}

// Remove closes the file and deletes it from disk.
func (rf *RecnoFile) Remove() error {
	if err := rf.Close(); err != nil {
		return err
	}
	if err := os.Remove(rf.Path); err != nil {
		return errors.Wrapf(err, "remove %s", rf.Path)
	}
	return nil
}
