package heap

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/giraffedb/giraffesql/internal/record"
	"github.com/giraffedb/giraffesql/internal/storage"
)

var (
	ErrRowTooLarge = errors.New("heap: marshalled row does not fit in a block")
)

// Table is a row-oriented relation backed by one heap file named
// exactly the relation name. The schema's column order drives
// marshalling and unmarshalling.
type Table struct {
	Name   string
	Schema record.Schema
	file   *storage.HeapFile
}

func NewTable(dir, name string, schema record.Schema) *Table {
	return &Table{
		Name:   name,
		Schema: schema,
		file:   storage.NewHeapFile(dir, name),
	}
}

// Create makes the backing heap file; it fails if the file exists.
func (t *Table) Create() error {
	return t.file.Create()
}

// CreateIfNotExists opens the existing backing file instead of
// failing when it is already there.
func (t *Table) CreateIfNotExists() error {
	err := t.file.Create()
	if errors.Is(err, storage.ErrFileExists) {
		return t.file.Open()
	}
	return err
}

// Drop removes the backing file. The table is unusable afterwards.
func (t *Table) Drop() error {
	return t.file.Drop()
}

func (t *Table) Open() error  { return t.file.Open() }
func (t *Table) Close() error { return t.file.Close() }

// Validate produces a normalized row holding exactly the declared
// columns, copied from the input.
func (t *Table) Validate(row record.Row) (record.Row, error) {
	full := make(record.Row, len(t.Schema.Cols))
	for _, col := range t.Schema.Cols {
		v, ok := row[col.Name]
		if !ok {
			return nil, record.ErrMissingColumn
		}
		full[col.Name] = v
	}
	return full, nil
}

// Insert validates and appends one row, preferring the current last
// block and allocating a fresh one on overflow. Returns the row's
// TID.
func (t *Table) Insert(row record.Row) (TID, error) {
	if err := t.Open(); err != nil {
		return TID{}, err
	}
	full, err := t.Validate(row)
	if err != nil {
		return TID{}, err
	}
	data, err := record.EncodeRow(t.Schema, full)
	if err != nil {
		return TID{}, err
	}

	page, err := t.file.Get(t.file.LastBlockID())
	if err != nil {
		return TID{}, err
	}
	rid, err := page.Add(data)
	if errors.Is(err, storage.ErrNoRoom) {
		// last block is full, spill to a fresh one
		page, err = t.file.GetNew()
		if err != nil {
			return TID{}, err
		}
		rid, err = page.Add(data)
		if errors.Is(err, storage.ErrNoRoom) {
			// does not even fit an empty block
			return TID{}, ErrRowTooLarge
		}
	}
	if err != nil {
		return TID{}, err
	}
	if err := t.file.Put(page); err != nil {
		return TID{}, err
	}

	id := TID{BlockID: page.BlockID, RecordID: rid}
	log.WithFields(log.Fields{"table": t.Name, "block": id.BlockID, "record": id.RecordID}).
		Debug("inserted row")
	return id, nil
}

// Select returns every live TID in the file. Predicate filtering is
// the evaluation plan's job; the table always returns all handles.
func (t *Table) Select() ([]TID, error) {
	if err := t.Open(); err != nil {
		return nil, err
	}
	var handles []TID
	for _, blockID := range t.file.BlockIDs() {
		page, err := t.file.Get(blockID)
		if err != nil {
			return nil, err
		}
		for _, rid := range page.IDs() {
			handles = append(handles, TID{BlockID: blockID, RecordID: rid})
		}
	}
	return handles, nil
}

// Project reads the row at id. When columns is non-nil only those
// keys are returned; unknown column names are silently omitted.
func (t *Table) Project(id TID, columns []string) (record.Row, error) {
	if err := t.Open(); err != nil {
		return nil, err
	}
	page, err := t.file.Get(id.BlockID)
	if err != nil {
		return nil, err
	}
	data, err := page.Get(id.RecordID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, storage.ErrInvalidRecordID
	}
	row, err := record.DecodeRow(t.Schema, data)
	if err != nil {
		return nil, err
	}
	if columns == nil {
		return row, nil
	}
	out := make(record.Row, len(columns))
	for _, name := range columns {
		if v, ok := row[name]; ok {
			out[name] = v
		}
	}
	return out, nil
}

// Update rewrites the row at id with the given column values merged
// over the stored ones. The record stays in its block, so the TID
// remains valid.
func (t *Table) Update(id TID, values record.Row) error {
	current, err := t.Project(id, nil)
	if err != nil {
		return err
	}
	for name, v := range values {
		current[name] = v
	}
	full, err := t.Validate(current)
	if err != nil {
		return err
	}
	data, err := record.EncodeRow(t.Schema, full)
	if err != nil {
		return err
	}
	page, err := t.file.Get(id.BlockID)
	if err != nil {
		return err
	}
	if err := page.Put(id.RecordID, data); err != nil {
		return err
	}
	return t.file.Put(page)
}

// Delete removes the row at id.
func (t *Table) Delete(id TID) error {
	if err := t.Open(); err != nil {
		return err
	}
	page, err := t.file.Get(id.BlockID)
	if err != nil {
		return err
	}
	if err := page.Delete(id.RecordID); err != nil {
		return err
	}
	return t.file.Put(page)
}
