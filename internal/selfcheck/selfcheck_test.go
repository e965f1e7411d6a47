package selfcheck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotted(t *testing.T) {
	require.NoError(t, Slotted())
}

func TestHeapFile(t *testing.T) {
	require.NoError(t, HeapFile(t.TempDir()))
}

func TestHeapStorage(t *testing.T) {
	require.NoError(t, HeapStorage(t.TempDir()))
}
