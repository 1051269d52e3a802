package btree

import (
	"encoding/binary"

	"github.com/jsmith-dev/buzzdb/buffer"
)

// K is the fixed fanout: a leaf holds up to K key/value pairs, an inner
// node up to K keys and K+1 children. This is the spec's worked capacity
// for 8-byte keys/values at a 1024-byte page.
const K = 42

const (
	offLevel        = 0 // uint16: 0 for a leaf, >0 for an inner node
	offCount        = 2 // uint16: number of populated key slots
	offRightSibling = 4 // uint64: leaf-to-leaf chain, used only during split bookkeeping
	headerSize      = 12
	valuesOff       = headerSize + K*8 // leaf values / inner children start here
)

// node overlays a fixed binary layout onto a page's backing bytes. It does
// not own the bytes; the caller is responsible for latching the frame they
// came from for as long as the node view is in use.
type node struct {
	buf []byte
}

func (n node) level() uint16 { return binary.LittleEndian.Uint16(n.buf[offLevel:]) }
func (n node) setLevel(l uint16) {
	binary.LittleEndian.PutUint16(n.buf[offLevel:], l)
}

func (n node) isLeaf() bool { return n.level() == 0 }

func (n node) count() int { return int(binary.LittleEndian.Uint16(n.buf[offCount:])) }
func (n node) setCount(c int) {
	binary.LittleEndian.PutUint16(n.buf[offCount:], uint16(c))
}

func (n node) rightSibling() buffer.PageID {
	return buffer.PageID(binary.LittleEndian.Uint64(n.buf[offRightSibling:]))
}
func (n node) setRightSibling(id buffer.PageID) {
	binary.LittleEndian.PutUint64(n.buf[offRightSibling:], uint64(id))
}

func (n node) key(i int) int64 {
	return int64(binary.LittleEndian.Uint64(n.buf[headerSize+i*8:]))
}
func (n node) setKey(i int, k int64) {
	binary.LittleEndian.PutUint64(n.buf[headerSize+i*8:], uint64(k))
}

// value returns the i'th leaf value. Valid only on a leaf node.
func (n node) value(i int) int64 {
	return int64(binary.LittleEndian.Uint64(n.buf[valuesOff+i*8:]))
}
func (n node) setValue(i int, v int64) {
	binary.LittleEndian.PutUint64(n.buf[valuesOff+i*8:], uint64(v))
}

// child returns the i'th child pointer, i in [0, count]. Valid only on an
// inner node.
func (n node) child(i int) buffer.PageID {
	return buffer.PageID(binary.LittleEndian.Uint64(n.buf[valuesOff+i*8:]))
}
func (n node) setChild(i int, id buffer.PageID) {
	binary.LittleEndian.PutUint64(n.buf[valuesOff+i*8:], uint64(id))
}

func (n node) full() bool { return n.count() >= K }

// findSlot returns the index of the first key >= target, or count() if
// every key is smaller (leaf search).
func (n node) findSlot(target int64) int {
	c := n.count()
	for i := 0; i < c; i++ {
		if n.key(i) >= target {
			return i
		}
	}
	return c
}

// findChildIndex returns the index of the child to descend into for
// target: the first child whose separator key exceeds target, or the
// last child if target is >= every separator (inner node search).
func (n node) findChildIndex(target int64) int {
	c := n.count()
	for i := 0; i < c; i++ {
		if target < n.key(i) {
			return i
		}
	}
	return c
}

// leafInsert inserts (or, if key is already present, overwrites) a
// key/value pair. Caller must ensure the node is not full.
func (n node) leafInsert(key, value int64) {
	slot := n.findSlot(key)
	c := n.count()
	if slot < c && n.key(slot) == key {
		n.setValue(slot, value)
		return
	}
	for i := c; i > slot; i-- {
		n.setKey(i, n.key(i-1))
		n.setValue(i, n.value(i-1))
	}
	n.setKey(slot, key)
	n.setValue(slot, value)
	n.setCount(c + 1)
}

// leafErase removes key if present and reports whether it was found. It
// never rebalances or merges with a sibling.
func (n node) leafErase(key int64) bool {
	slot := n.findSlot(key)
	c := n.count()
	if slot >= c || n.key(slot) != key {
		return false
	}
	for i := slot; i < c-1; i++ {
		n.setKey(i, n.key(i+1))
		n.setValue(i, n.value(i+1))
	}
	n.setCount(c - 1)
	return true
}

// innerInsertChild inserts a new separator key and right-hand child at the
// position determined by key. Caller must ensure the node is not full.
func (n node) innerInsertChild(key int64, rightChild buffer.PageID) {
	slot := n.findChildIndex(key)
	c := n.count()
	for i := c; i > slot; i-- {
		n.setKey(i, n.key(i-1))
	}
	for i := c + 1; i > slot+1; i-- {
		n.setChild(i, n.child(i-1))
	}
	n.setKey(slot, key)
	n.setChild(slot+1, rightChild)
	n.setCount(c + 1)
}

func initLeaf(buf []byte) node {
	n := node{buf: buf}
	n.setLevel(0)
	n.setCount(0)
	n.setRightSibling(0)
	return n
}

func initInner(buf []byte, level uint16) node {
	n := node{buf: buf}
	n.setLevel(level)
	n.setCount(0)
	return n
}
