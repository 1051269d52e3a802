package btree

// splitLeaf divides a full leaf node's entries roughly in half, writing the
// upper half into newBuf. The returned split key is the first key of the
// new right-hand leaf (the separator a parent inner node stores).
func splitLeaf(n node, newBuf []byte) (node, int64) {
	c := n.count()
	mid := c / 2

	newNode := initLeaf(newBuf)
	for i, j := mid, 0; i < c; i, j = i+1, j+1 {
		newNode.setKey(j, n.key(i))
		newNode.setValue(j, n.value(i))
	}
	newNode.setCount(c - mid)
	n.setCount(mid)

	return newNode, newNode.key(0)
}

// splitInner divides a full inner node's keys and children roughly in
// half. The middle key is promoted to the parent (it appears in neither
// half); children are partitioned so the promoted key's left/right
// subtrees land on the matching side.
func splitInner(n node, newBuf []byte) (node, int64) {
	c := n.count()
	mid := c / 2
	splitKey := n.key(mid)

	newNode := initInner(newBuf, n.level())
	j := 0
	for i := mid + 1; i < c; i++ {
		newNode.setKey(j, n.key(i))
		j++
	}
	j = 0
	for i := mid + 1; i <= c; i++ {
		newNode.setChild(j, n.child(i))
		j++
	}
	newNode.setCount(c - mid - 1)
	n.setCount(mid)

	return newNode, splitKey
}
