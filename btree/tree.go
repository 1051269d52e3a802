// Package btree implements a disk-backed B+ tree index over fixed-size
// int64 keys and values, built on top of a buffer.Manager. Erase never
// merges or rebalances nodes: tree height only ever grows.
package btree

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/jsmith-dev/buzzdb/buffer"
)

// metadata lives in page offset 0 of every segment a Tree is opened on:
// the current root's page offset, and the next unallocated page offset.
const (
	metaRootOff = 0
	metaNextOff = 8
	metaSize    = 16
)

// Tree is a B+ tree index over one segment of a buffer.Manager. Lookup
// traverses with true latch coupling (shared latches, released on the
// parent as soon as the child is fixed); Erase couples the same way with
// exclusive latches. Insert holds an exclusive latch on every page of the
// root-to-leaf path until the split propagation through that page is done.
type Tree struct {
	mgr     *buffer.Manager
	segment uint16

	mu         sync.Mutex // serializes root changes and page allocation
	rootOffset uint64
	nextOffset uint64
}

// Open opens (initializing if empty) a B+ tree rooted in the given
// segment of mgr. Segment offset 0 is reserved for tree metadata; offset 1
// becomes the initial empty root leaf on first use.
func Open(mgr *buffer.Manager, segment uint16) (*Tree, error) {
	need := valuesOff + (K+1)*8
	if mgr.PageSize() < need {
		return nil, fmt.Errorf("btree: page size %d too small for capacity %d (need >= %d bytes)", mgr.PageSize(), K, need)
	}

	t := &Tree{mgr: mgr, segment: segment}

	metaID := buffer.NewPageID(segment, metaRootOff)
	h, err := mgr.FixPage(metaID, true)
	if err != nil {
		return nil, err
	}
	buf := h.Data()
	root := binary.LittleEndian.Uint64(buf[metaRootOff:])
	next := binary.LittleEndian.Uint64(buf[metaNextOff:])

	if root == 0 && next == 0 {
		rootID := buffer.NewPageID(segment, 1)
		rh, err := mgr.FixPage(rootID, true)
		if err != nil {
			mgr.UnfixPage(h, false)
			return nil, err
		}
		initLeaf(rh.Data())
		mgr.UnfixPage(rh, true)

		t.rootOffset = 1
		t.nextOffset = 2
		binary.LittleEndian.PutUint64(buf[metaRootOff:], t.rootOffset)
		binary.LittleEndian.PutUint64(buf[metaNextOff:], t.nextOffset)
		mgr.UnfixPage(h, true)
	} else {
		t.rootOffset = root
		t.nextOffset = next
		mgr.UnfixPage(h, false)
	}

	return t, nil
}

func (t *Tree) rootPageID() buffer.PageID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return buffer.NewPageID(t.segment, t.rootOffset)
}

// persistMetaLocked writes the current root/next-offset to the metadata
// page. Callers must hold t.mu.
func (t *Tree) persistMetaLocked() error {
	metaID := buffer.NewPageID(t.segment, metaRootOff)
	h, err := t.mgr.FixPage(metaID, true)
	if err != nil {
		return err
	}
	buf := h.Data()
	binary.LittleEndian.PutUint64(buf[metaRootOff:], t.rootOffset)
	binary.LittleEndian.PutUint64(buf[metaNextOff:], t.nextOffset)
	t.mgr.UnfixPage(h, true)
	return nil
}

func (t *Tree) allocatePage() (buffer.PageID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	off := t.nextOffset
	t.nextOffset++
	if err := t.persistMetaLocked(); err != nil {
		return 0, err
	}
	return buffer.NewPageID(t.segment, off), nil
}

// Lookup returns the value associated with key, and whether it was found.
func (t *Tree) Lookup(key int64) (int64, bool, error) {
	pageID := t.rootPageID()
	var parent *buffer.Handle

	for {
		h, err := t.mgr.FixPage(pageID, false)
		if err != nil {
			if parent != nil {
				t.mgr.UnfixPage(parent, false)
			}
			return 0, false, err
		}
		if parent != nil {
			t.mgr.UnfixPage(parent, false)
		}

		n := node{h.Data()}
		if n.isLeaf() {
			slot := n.findSlot(key)
			found := slot < n.count() && n.key(slot) == key
			var value int64
			if found {
				value = n.value(slot)
			}
			t.mgr.UnfixPage(h, false)
			return value, found, nil
		}

		idx := n.findChildIndex(key)
		pageID = n.child(idx)
		parent = h
	}
}

// Insert adds key/value, overwriting the value if key is already present.
func (t *Tree) Insert(key, value int64) error {
	rootID := t.rootPageID()

	split, splitKey, newPageID, err := t.insertRecur(rootID, key, value)
	if err != nil {
		return err
	}
	if !split {
		return nil
	}

	newRootID, err := t.allocatePage()
	if err != nil {
		return err
	}
	h, err := t.mgr.FixPage(newRootID, true)
	if err != nil {
		return err
	}
	oh, err := t.mgr.FixPage(rootID, false)
	if err != nil {
		t.mgr.UnfixPage(h, false)
		return err
	}
	oldLevel := node{oh.Data()}.level()
	t.mgr.UnfixPage(oh, false)

	rn := initInner(h.Data(), oldLevel+1)
	rn.setChild(0, rootID)
	rn.setKey(0, splitKey)
	rn.setChild(1, newPageID)
	rn.setCount(1)
	t.mgr.UnfixPage(h, true)

	t.mu.Lock()
	t.rootOffset = newRootID.Offset()
	err = t.persistMetaLocked()
	t.mu.Unlock()
	return err
}

// insertRecur descends to the leaf for key, inserts, and propagates a
// split back up the call stack as needed. It holds an exclusive latch on
// every page on the path from root to leaf until it returns.
func (t *Tree) insertRecur(pageID buffer.PageID, key, value int64) (bool, int64, buffer.PageID, error) {
	h, err := t.mgr.FixPage(pageID, true)
	if err != nil {
		return false, 0, 0, err
	}
	n := node{h.Data()}

	if n.isLeaf() {
		if !n.full() {
			n.leafInsert(key, value)
			t.mgr.UnfixPage(h, true)
			return false, 0, 0, nil
		}

		newID, err := t.allocatePage()
		if err != nil {
			t.mgr.UnfixPage(h, false)
			return false, 0, 0, err
		}
		nh, err := t.mgr.FixPage(newID, true)
		if err != nil {
			t.mgr.UnfixPage(h, false)
			return false, 0, 0, err
		}

		newLeaf, splitKey := splitLeaf(n, nh.Data())
		newLeaf.setRightSibling(n.rightSibling())
		n.setRightSibling(newID)

		if key < splitKey {
			n.leafInsert(key, value)
		} else {
			newLeaf.leafInsert(key, value)
		}

		t.mgr.UnfixPage(h, true)
		t.mgr.UnfixPage(nh, true)
		return true, splitKey, newID, nil
	}

	idx := n.findChildIndex(key)
	childID := n.child(idx)
	split, childSplitKey, newChildID, err := t.insertRecur(childID, key, value)
	if err != nil {
		t.mgr.UnfixPage(h, false)
		return false, 0, 0, err
	}
	if !split {
		t.mgr.UnfixPage(h, false)
		return false, 0, 0, nil
	}

	if !n.full() {
		n.innerInsertChild(childSplitKey, newChildID)
		t.mgr.UnfixPage(h, true)
		return false, 0, 0, nil
	}

	newID, err := t.allocatePage()
	if err != nil {
		t.mgr.UnfixPage(h, false)
		return false, 0, 0, err
	}
	nh, err := t.mgr.FixPage(newID, true)
	if err != nil {
		t.mgr.UnfixPage(h, false)
		return false, 0, 0, err
	}

	newInner, splitKey := splitInner(n, nh.Data())
	if childSplitKey < splitKey {
		n.innerInsertChild(childSplitKey, newChildID)
	} else {
		newInner.innerInsertChild(childSplitKey, newChildID)
	}

	t.mgr.UnfixPage(h, true)
	t.mgr.UnfixPage(nh, true)
	return true, splitKey, newID, nil
}

// Erase removes key if present. It is a no-op if key is absent, and never
// merges or rebalances nodes after removing a key from a leaf.
func (t *Tree) Erase(key int64) error {
	pageID := t.rootPageID()
	var parent *buffer.Handle

	for {
		h, err := t.mgr.FixPage(pageID, true)
		if err != nil {
			if parent != nil {
				t.mgr.UnfixPage(parent, false)
			}
			return err
		}

		n := node{h.Data()}
		if n.isLeaf() {
			if parent != nil {
				t.mgr.UnfixPage(parent, false)
			}
			t.mgr.UnfixPage(h, n.leafErase(key))
			return nil
		}

		idx := n.findChildIndex(key)
		next := n.child(idx)
		if parent != nil {
			t.mgr.UnfixPage(parent, false)
		}
		parent = h
		pageID = next
	}
}
