package catalog

import (
	log "github.com/sirupsen/logrus"

	"github.com/giraffedb/giraffesql/internal/heap"
)

// DbIndex is the executor-facing contract for a secondary index. The
// engine records index definitions in _indices but keeps no secondary
// structures; the shipped implementation acknowledges every call so
// the executor's per-index discipline is exercised end to end.
type DbIndex interface {
	Create() error
	Drop() error
	Open() error
	Close() error
	Insert(id heap.TID) error
	Delete(id heap.TID) error
}

// btreeIndex is the catalog-backed stub implementation.
type btreeIndex struct {
	table string
	name  string
}

func (ix *btreeIndex) logger() *log.Entry {
	return log.WithFields(log.Fields{"table": ix.table, "index": ix.name})
}

func (ix *btreeIndex) Create() error {
	ix.logger().Debug("index created")
	return nil
}

func (ix *btreeIndex) Drop() error {
	ix.logger().Debug("index dropped")
	return nil
}

func (ix *btreeIndex) Open() error  { return nil }
func (ix *btreeIndex) Close() error { return nil }

func (ix *btreeIndex) Insert(id heap.TID) error {
	ix.logger().WithFields(log.Fields{"block": id.BlockID, "record": id.RecordID}).
		Debug("index insert")
	return nil
}

func (ix *btreeIndex) Delete(id heap.TID) error {
	ix.logger().WithFields(log.Fields{"block": id.BlockID, "record": id.RecordID}).
		Debug("index delete")
	return nil
}

func indexKey(table, index string) string { return table + "." + index }

func keyTable(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i]
		}
	}
	return key
}

// GetIndex materializes the index object for (table, index), reusing
// a prior instance when one is registered.
func (c *Catalog) GetIndex(table, index string) DbIndex {
	key := indexKey(table, index)
	if ix, ok := c.indexes[key]; ok {
		return ix
	}
	ix := &btreeIndex{table: table, name: index}
	c.indexes[key] = ix
	return ix
}
