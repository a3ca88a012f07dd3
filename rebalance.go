package ttree

// rebalance walks from start toward the root, refreshing height/bf at
// each ancestor and rotating wherever |bf| reaches 2. It is called after
// any single structural edit — a leaf attached, a node unlinked — and
// is symmetric for growth and shrinkage: the loop only needs to know
// whether a node's height actually changed, never which direction the
// edit came from (spec.md §4.5).
func (t *Tree[K, V]) rebalance(start *node[K, V]) {
	for n := start; n != nil; {
		before := n.height
		changed := n.recomputeHeight()
		if n.bf == 2 || n.bf == -2 {
			n = t.rotate(n)
			changed = n.height != before
		}
		if !changed {
			return
		}
		n = n.parent
	}
}

// rotate restores balance at n (|n.bf| == 2), choosing a single or
// double rotation by the sign of n's heavy child's own bf, and returns
// the node that now occupies n's old position.
func (t *Tree[K, V]) rotate(n *node[K, V]) *node[K, V] {
	if n.bf > 0 {
		if n.right().bf < 0 {
			t.rotateSingle(n.right(), sideLeftChild)
		}
		return t.rotateSingle(n, sideRightChild)
	}
	if n.left().bf > 0 {
		t.rotateSingle(n.left(), sideRightChild)
	}
	return t.rotateSingle(n, sideLeftChild)
}

// rotateSingle brings n.children[heavySide] up to occupy n's position,
// handing n the child that was in between (the rotation pivot's
// light-side child). This is the textbook AVL single rotation,
// generalized over the left/right array-of-two-children trick rather
// than written twice (spec.md §4.5, §9 design note).
func (t *Tree[K, V]) rotateSingle(n *node[K, V], heavySide nodeSide) *node[K, V] {
	light := otherSide(heavySide)
	c := n.children[heavySide]
	m := c.children[light]

	parent, side := n.parent, n.side
	n.setChild(heavySide, m)
	c.setChild(light, n)

	if parent == nil {
		c.parent = nil
		c.side = sideRootNode
		t.root = c
	} else {
		parent.setChild(side, c)
	}

	n.recomputeHeight()
	c.recomputeHeight()

	fixSuccessor(n)
	fixSuccessor(c)
	fixSuccessor(m)

	t.redistributeAfterRotation(n, m, heavySide)
	return c
}

// redistributeAfterRotation is the T*-specific refinement on top of
// plain AVL rotation: n, the node demoted by the rotation, inherited m
// as a new child and so may now be internal while holding fewer than
// the half-full floor of keys. The donor is the node of m's subtree
// holding the key adjacent to n's range (the rightmost node of n's new
// left subtree, or the leftmost of its new right subtree — m itself
// when m has no child on that side). If the donor has spare keys above
// the floor, shift that adjacent key across the rotation boundary one
// at a time until n reaches the floor or the donor would drop to the
// floor itself (spec.md §4.5, §9 Open Question (b): the simplest
// redistribution rule that preserves the occupancy invariant without
// risking a cascade into a second unbalancing).
func (t *Tree[K, V]) redistributeAfterRotation(n, m *node[K, V], heavySide nodeSide) {
	m = boundNode(n, heavySide)
	for n.count() < t.minKeys() && m != nil && m.count() > t.minKeys() {
		if heavySide == sideLeftChild {
			key, val := m.keys[m.maxIdx], m.values[m.maxIdx]
			m.maxIdx--
			t.insertIntoNode(n, n.minIdx, key, val)
		} else {
			key, val := m.keys[m.minIdx], m.values[m.minIdx]
			m.minIdx++
			t.insertIntoNode(n, n.maxIdx+1, key, val)
		}
	}
}
