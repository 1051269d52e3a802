// Package btreekv adapts the fixed-size int64 B+ tree to the generic
// common.StorageEngine interface so it can run through common/benchmark's
// engine-agnostic harness. This is a benchmark-only adapter: it can't
// preserve arbitrary-length keys or values through a tree whose slots are
// eight bytes wide, so it hashes each key down to an int64 and stores a
// content hash of the value rather than the value itself. Get therefore
// returns a content fingerprint, not the original bytes — fine for
// measuring throughput and latency, useless for anything that needs the
// data back.
package btreekv

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/jsmith-dev/buzzdb/btree"
	"github.com/jsmith-dev/buzzdb/buffer"
	"github.com/jsmith-dev/buzzdb/common"
)

// Engine wraps one B+ tree segment as a common.StorageEngine.
type Engine struct {
	mgr     *buffer.Manager
	tree    *btree.Tree
	numKeys int64
}

// Open creates (or reopens) a buffer-pooled B+ tree at dir, exposed as a
// StorageEngine for benchmarking.
func Open(dir string, pageSize, pageCount int) (*Engine, error) {
	mgr, err := buffer.NewManager(dir, pageSize, pageCount)
	if err != nil {
		return nil, err
	}
	tree, err := btree.Open(mgr, 0)
	if err != nil {
		mgr.Close()
		return nil, err
	}
	return &Engine{mgr: mgr, tree: tree}, nil
}

func hash64(b []byte) int64 {
	h := fnv.New64a()
	h.Write(b)
	return int64(h.Sum64())
}

func (e *Engine) Put(key, value []byte) error {
	if err := e.tree.Insert(hash64(key), hash64(value)); err != nil {
		return err
	}
	e.numKeys++
	return nil
}

func (e *Engine) Get(key []byte) ([]byte, error) {
	v, found, err := e.tree.Lookup(hash64(key))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrKeyNotFound
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf, nil
}

func (e *Engine) Delete(key []byte) error {
	return e.tree.Erase(hash64(key))
}

func (e *Engine) Close() error { return e.mgr.Close() }

func (e *Engine) Sync() error { return e.mgr.Flush() }

func (e *Engine) Stats() common.Stats {
	s := e.mgr.Stats()
	return common.Stats{
		NumKeys:       e.numKeys,
		TotalDiskSize: int64(s.Resident) * int64(e.mgr.PageSize()),
		WriteCount:    s.Writes,
		ReadCount:     s.Reads,
	}
}

// Compact is a no-op: the B+ tree has no background compaction, unlike
// the hash-index/LSM engines this interface was originally shaped for.
func (e *Engine) Compact() error { return nil }

var _ common.StorageEngine = (*Engine)(nil)
