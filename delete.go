package ttree

// Delete removes key from the tree and returns its value. found is false,
// and the tree is unchanged, if key is absent.
func (t *Tree[K, V]) Delete(key K) (value V, found bool) {
	r := t.search(key)
	if !r.found {
		return value, false
	}
	cursor := cursorFromResult(t, r)
	return t.DeletePlaceful(&cursor)
}

// DeletePlaceful removes the key cursor is Tied to, leaving cursor Untied
// afterward. It reports false without modifying the tree if cursor is
// not Tied to a real key.
func (t *Tree[K, V]) DeletePlaceful(cursor *Cursor[K, V]) (value V, ok bool) {
	if cursor.state != StateTied || cursor.side != sideBound {
		return value, false
	}
	n, idx := cursor.node, cursor.idx
	value = n.values[idx]
	t.removeFromNode(n, idx)
	t.count--

	switch {
	case !n.isLeaf() && !n.isHalfLeaf() && n.count() < t.minKeys():
		// Case: internal node dropped below the half-full floor. Borrow
		// the immediate predecessor's maximum key rather than touching
		// tree shape (spec.md §4.4 "half-empty").
		t.refillInternal(n)
	case n.isEmpty():
		// Case: leaf or half-leaf emptied out entirely; it cannot stay
		// in the tree (spec.md §3 invariant: every live node holds at
		// least one key), so unlink or splice it out.
		t.unlinkEmpty(n)
	}

	*cursor = Cursor[K, V]{tree: t, state: StateUntied}
	return value, true
}

// removeFromNode deletes the key at idx from n's dense array, shifting
// whichever side of [minIdx, maxIdx] is shorter to keep the remaining
// keys contiguous.
func (t *Tree[K, V]) removeFromNode(n *node[K, V], idx int) {
	if idx-n.minIdx <= n.maxIdx-idx {
		copy(n.keys[n.minIdx+1:idx+1], n.keys[n.minIdx:idx])
		copy(n.values[n.minIdx+1:idx+1], n.values[n.minIdx:idx])
		n.minIdx++
	} else {
		copy(n.keys[idx:n.maxIdx], n.keys[idx+1:n.maxIdx+1])
		copy(n.values[idx:n.maxIdx], n.values[idx+1:n.maxIdx+1])
		n.maxIdx--
	}
}

// refillInternal restores n's half-full floor by pulling the greatest
// key out of its glb node (the rightmost node of n's left subtree,
// which by construction has no right child — so this never needs to
// recurse through an internal node). n always has a left child here
// since it is internal. If the glb node empties out as a result, it is
// unlinked the same way any other emptied leaf/half-leaf is.
func (t *Tree[K, V]) refillInternal(n *node[K, V]) {
	glb := boundNode(n, sideLeftChild)
	key, val := glb.keys[glb.maxIdx], glb.values[glb.maxIdx]
	t.removeFromNode(glb, glb.maxIdx)
	t.insertIntoNode(n, n.minIdx, key, val)
	if glb.isEmpty() {
		t.unlinkEmpty(glb)
	}
}

// unlinkEmpty removes n — a leaf or half-leaf with zero keys — from the
// tree, splicing n's lone child (if any) into its place, then
// rebalances from the splice point upward. Successor links for the
// handful of nodes whose in-order neighbor identity could have changed
// — n's predecessor, its old parent, and its promoted child — are
// recomputed structurally, the same pattern used after a rotation.
func (t *Tree[K, V]) unlinkEmpty(n *node[K, V]) {
	pred := predecessorNode(n)
	parent := n.parent

	var child *node[K, V]
	if n.left() != nil {
		child = n.left()
	} else {
		child = n.right()
	}

	if parent == nil {
		t.root = child
		if child != nil {
			child.parent = nil
			child.side = sideRootNode
		}
		t.freeNode(n)
		fixSuccessor(pred)
		return
	}

	parent.setChild(n.side, child)
	t.freeNode(n)

	fixSuccessor(pred)
	fixSuccessor(parent)
	fixSuccessor(child)

	t.rebalance(parent)
}
