package ttree

// Insert adds key/value to the tree. It returns ErrDuplicate, leaving the
// tree unchanged, if key is already present (spec.md §4.3: Insert is
// just a Lookup followed by InsertPlaceful, and does not support
// duplicates — that requires LookupCursor + InsertPlaceful directly).
func (t *Tree[K, V]) Insert(key K, value V) error {
	r := t.search(key)
	if r.found {
		return ErrDuplicate
	}
	cursor := cursorFromResult(t, r)
	t.InsertPlaceful(&cursor, key, value)
	return nil
}

// InsertPlaceful inserts key/value at the position recorded by cursor, a
// cursor previously returned from LookupCursor. It does not check for
// duplicates: calling
// it with a cursor Tied to an existing equal key deliberately creates a
// duplicate, which is how this tree supports multi-valued keys despite
// Insert refusing them (spec.md §1 Non-goals, §4.3).
func (t *Tree[K, V]) InsertPlaceful(cursor *Cursor[K, V], key K, value V) {
	switch cursor.side {
	case sideLeft, sideRight:
		leaf := t.attachLeaf(cursor.node, cursor.side, key, value)
		*cursor = Cursor[K, V]{tree: t, node: leaf, idx: 0, side: sideBound, state: StateTied}
	case sideBound:
		if cursor.node.count() < t.order {
			// Case B1: room in the bounding node, plain shift-insert.
			landedIdx := t.insertIntoNode(cursor.node, cursor.idx, key, value)
			*cursor = Cursor[K, V]{tree: t, node: cursor.node, idx: landedIdx, side: sideBound, state: StateTied}
		} else {
			// Case B2: full bounding node, extract-and-spill.
			t.insertOverflow(cursor, key, value)
		}
	}
	t.count++
}

// insertIntoNode places key/value at sorted position idx (an index in
// n.keys' absolute coordinate space, as returned by Tree.findInNode)
// into a non-full node. An append goes into the free slot after maxIdx
// when there is one; otherwise, if there is room before minIdx, the keys
// below idx shift one slot toward the front; failing both, the keys from
// idx on shift one slot toward the back. It returns the index the new
// key actually landed at (front-insertion shifts idx back by one).
func (t *Tree[K, V]) insertIntoNode(n *node[K, V], idx int, key K, value V) int {
	switch {
	case idx > n.maxIdx && n.maxIdx+1 < len(n.keys):
		n.maxIdx++
		n.keys[n.maxIdx] = key
		n.values[n.maxIdx] = value
		return n.maxIdx
	case n.minIdx > 0:
		copy(n.keys[n.minIdx-1:idx-1], n.keys[n.minIdx:idx])
		copy(n.values[n.minIdx-1:idx-1], n.values[n.minIdx:idx])
		n.minIdx--
		n.keys[idx-1] = key
		n.values[idx-1] = value
		return idx - 1
	default:
		copy(n.keys[idx+1:n.maxIdx+2], n.keys[idx:n.maxIdx+1])
		copy(n.values[idx+1:n.maxIdx+2], n.values[idx:n.maxIdx+1])
		n.maxIdx++
		n.keys[idx] = key
		n.values[idx] = value
		return idx
	}
}

// insertOverflow implements Case B2: the bounding node is full, so its
// current minimum is extracted and spilled into the tree as a new leaf,
// making room for the new key inside the node (spec.md §4.3).
func (t *Tree[K, V]) insertOverflow(cursor *Cursor[K, V], key K, value V) {
	n := cursor.node
	exKey, exValue := n.keys[n.minIdx], n.values[n.minIdx]

	copy(n.keys[n.minIdx:n.maxIdx], n.keys[n.minIdx+1:n.maxIdx+1])
	copy(n.values[n.minIdx:n.maxIdx], n.values[n.minIdx+1:n.maxIdx+1])
	n.maxIdx--

	idx, _ := t.findInNode(n, key)
	newIdx := t.insertIntoNode(n, idx, key, value)

	// The extracted minimum belongs at the rightmost position of n's
	// greatest-lower-bound subtree, or as n's new left leaf if n has no
	// left subtree at all (spec.md §4.3 Case B2).
	if n.left() == nil {
		t.attachLeaf(n, sideLeft, exKey, exValue)
	} else {
		glb := boundNode(n, sideLeftChild)
		t.attachLeaf(glb, sideRight, exKey, exValue)
	}

	*cursor = Cursor[K, V]{tree: t, node: n, idx: newIdx, side: sideBound, state: StateTied}
}

// attachLeaf allocates a new one-key leaf and attaches it as parent's
// left or right child (Case C / the leaf-insertion tail of Case B2),
// threading the successor link and rebalancing from parent upward. It
// does not touch Tree.count — callers that are relocating an existing
// key (overflow spill) must not double-count it.
func (t *Tree[K, V]) attachLeaf(parent *node[K, V], side cursorSide, key K, value V) *node[K, V] {
	leaf := t.newNode()
	leaf.keys[0], leaf.values[0] = key, value
	leaf.minIdx, leaf.maxIdx = 0, 0

	if parent == nil {
		leaf.side = sideRootNode
		t.root = leaf
		return leaf
	}

	childSlot := sideLeftChild
	if side == sideRight {
		childSlot = sideRightChild
	}
	parent.setChild(childSlot, leaf)

	if childSlot == sideLeftChild {
		leaf.successor = parent
		if pred := predecessorNode(leaf); pred != nil {
			pred.successor = leaf
		}
	} else {
		leaf.successor = parent.successor
		parent.successor = leaf
	}

	t.logger.Debug("ttree: leaf attached")
	t.rebalance(parent)
	return leaf
}
