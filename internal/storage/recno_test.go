package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecnoCreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")

	rf, err := CreateRecnoFile(path)
	require.NoError(t, err)
	defer func() { _ = rf.Close() }()

	_, err = CreateRecnoFile(path)
	require.ErrorIs(t, err, ErrFileExists)
}

func TestRecnoPutGetStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	rf, err := CreateRecnoFile(path)
	require.NoError(t, err)

	count, err := rf.Stat()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), count)

	block := make([]byte, BlockSize)
	copy(block, "block one")
	require.NoError(t, rf.Put(1, block))

	copy(block, "block two")
	require.NoError(t, rf.Put(2, block))

	count, err = rf.Stat()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), count)

	got, err := rf.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("block one"), got[:9])

	// block ids are 1-based
	require.ErrorIs(t, rf.Put(0, block), ErrInvalidBlockID)
	_, err = rf.Get(0)
	require.ErrorIs(t, err, ErrInvalidBlockID)

	// wrong buffer length is rejected
	require.ErrorIs(t, rf.Put(3, []byte("short")), ErrWrongSize)

	require.NoError(t, rf.Close())
	require.NoError(t, rf.Close()) // idempotent
}

func TestRecnoReadPastEndZeroFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	rf, err := CreateRecnoFile(path)
	require.NoError(t, err)
	defer func() { _ = rf.Close() }()

	got, err := rf.Get(5)
	require.NoError(t, err)
	require.Len(t, got, BlockSize)
	for _, b := range got {
		require.Zero(t, b)
	}
}

func TestRecnoRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	rf, err := CreateRecnoFile(path)
	require.NoError(t, err)

	require.NoError(t, rf.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
