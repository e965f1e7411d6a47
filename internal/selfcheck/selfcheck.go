// Package selfcheck holds the storage smoke checks wired to the REPL
// inputs "test", "slotted", and "heapfile". They exercise the layers
// bottom-up with scratch files in the given directory, dropped
// afterwards, and report the first mismatch.
package selfcheck

import (
	"bytes"
	"fmt"

	"github.com/giraffedb/giraffesql/internal/heap"
	"github.com/giraffedb/giraffesql/internal/record"
	"github.com/giraffedb/giraffesql/internal/storage"
)

// Slotted drives one in-memory slotted page through the canonical
// add/put/del sequence.
func Slotted() error {
	page, err := storage.NewSlottedPage(make([]byte, storage.BlockSize), 1, true)
	if err != nil {
		return err
	}

	id1, err := page.Add([]byte("test1"))
	if err != nil {
		return err
	}
	if id1 != 1 {
		return fmt.Errorf("selfcheck: first record id = %d, want 1", id1)
	}
	id2, err := page.Add([]byte("test2"))
	if err != nil {
		return err
	}
	if id2 != 2 {
		return fmt.Errorf("selfcheck: second record id = %d, want 2", id2)
	}

	if err := page.Put(2, []byte("updated record 2")); err != nil {
		return err
	}
	if err := page.Delete(1); err != nil {
		return err
	}

	ids := page.IDs()
	if len(ids) != 1 || ids[0] != 2 {
		return fmt.Errorf("selfcheck: live ids = %v, want [2]", ids)
	}
	got, err := page.Get(2)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, []byte("updated record 2")) {
		return fmt.Errorf("selfcheck: record 2 = %q after update", got)
	}
	return nil
}

// HeapFile creates a scratch heap file in dir, allocates a second
// block, reopens, and verifies the stored bytes.
func HeapFile(dir string) error {
	hf := storage.NewHeapFile(dir, "_check_heapfile")
	if err := hf.Create(); err != nil {
		return err
	}
	defer func() { _ = hf.Drop() }()

	page, err := hf.Get(1)
	if err != nil {
		return err
	}
	rid, err := page.Add([]byte("block one record"))
	if err != nil {
		return err
	}
	if err := hf.Put(page); err != nil {
		return err
	}

	if _, err := hf.GetNew(); err != nil {
		return err
	}
	if hf.LastBlockID() != 2 {
		return fmt.Errorf("selfcheck: last block id = %d, want 2", hf.LastBlockID())
	}

	if err := hf.Close(); err != nil {
		return err
	}
	if err := hf.Open(); err != nil {
		return err
	}
	if hf.LastBlockID() != 2 {
		return fmt.Errorf("selfcheck: reopened block count = %d, want 2", hf.LastBlockID())
	}

	page, err = hf.Get(1)
	if err != nil {
		return err
	}
	got, err := page.Get(rid)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, []byte("block one record")) {
		return fmt.Errorf("selfcheck: reloaded record = %q", got)
	}
	return nil
}

// HeapStorage runs a scratch heap table through insert, scan,
// project, and delete.
func HeapStorage(dir string) error {
	schema := record.Schema{Cols: []record.Column{
		{Name: "a", Type: record.ColInt32},
		{Name: "b", Type: record.ColText},
	}}
	table := heap.NewTable(dir, "_check_table", schema)
	if err := table.Create(); err != nil {
		return err
	}
	defer func() { _ = table.Drop() }()

	row := record.Row{"a": record.NewInt(12), "b": record.NewText("Hello!")}
	id, err := table.Insert(row)
	if err != nil {
		return err
	}

	handles, err := table.Select()
	if err != nil {
		return err
	}
	if len(handles) != 1 || handles[0] != id {
		return fmt.Errorf("selfcheck: handles = %v, want [%v]", handles, id)
	}

	got, err := table.Project(id, nil)
	if err != nil {
		return err
	}
	for name, want := range row {
		if !got[name].Equal(want) {
			return fmt.Errorf("selfcheck: column %s = %v, want %v", name, got[name], want)
		}
	}

	if err := table.Delete(id); err != nil {
		return err
	}
	handles, err = table.Select()
	if err != nil {
		return err
	}
	if len(handles) != 0 {
		return fmt.Errorf("selfcheck: %d handles after delete", len(handles))
	}
	return nil
}
