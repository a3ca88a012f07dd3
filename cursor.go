package ttree

// cursorSide is what a Cursor refers to. It is a distinct type from
// nodeSide (spec.md §9 design note (c): the C header's TNODE_BOUND ==
// TNODE_UNDEF sentinel reuse is not carried over — sideBound is its own
// explicit value, never confused with "this node is the root").
type cursorSide int8

const (
	sideLeft cursorSide = iota
	sideRight
	sideBound
)

// cursorState is a Cursor's lifecycle stage.
type cursorState int8

const (
	// StateUntied is a freshly-initialized cursor with no position.
	StateUntied cursorState = iota
	// StateTied references a concrete (node, idx) holding a real key.
	StateTied
	// StatePending references a prospective insertion position.
	StatePending
)

// Cursor is a stable reference to a position in a Tree, returned by
// LookupCursor/Min/Max and consumed by InsertPlaceful/
// DeletePlaceful/Next/Prev. Cursors do not survive mutations performed
// through any other cursor or through Insert/Delete/Replace on the same
// tree (spec.md §4.6) — this is a caller contract, not enforced here.
type Cursor[K, V any] struct {
	tree  *Tree[K, V]
	node  *node[K, V]
	idx   int
	side  cursorSide
	state cursorState
}

// State returns the cursor's current lifecycle stage.
func (c Cursor[K, V]) State() cursorState { return c.state }

// Copy returns a value copy of c.
func (c Cursor[K, V]) Copy() Cursor[K, V] { return c }

func cursorFromResult[K, V any](t *Tree[K, V], r searchResult[K, V]) Cursor[K, V] {
	state := StatePending
	if r.found {
		state = StateTied
	}
	return Cursor[K, V]{tree: t, node: r.node, idx: r.idx, side: r.side, state: state}
}

// Key returns the cursor's key and true if the cursor is Tied to a real
// key; otherwise it returns the zero value and false.
func (c Cursor[K, V]) Key() (k K, ok bool) {
	if c.state != StateTied || c.side != sideBound {
		return k, false
	}
	return c.node.keys[c.idx], true
}

// Value returns the cursor's value and true if the cursor is Tied to a
// real key; otherwise it returns the zero value and false.
func (c Cursor[K, V]) Value() (v V, ok bool) {
	if c.state != StateTied || c.side != sideBound {
		return v, false
	}
	return c.node.values[c.idx], true
}

// Min returns a cursor tied to the tree's smallest key, or an untied
// cursor if the tree is empty.
func (t *Tree[K, V]) Min() Cursor[K, V] {
	n := sidemost(t.root, sideLeftChild)
	if n == nil {
		return Cursor[K, V]{tree: t, state: StateUntied}
	}
	return Cursor[K, V]{tree: t, node: n, idx: n.minIdx, side: sideBound, state: StateTied}
}

// Max returns a cursor tied to the tree's largest key, or an untied
// cursor if the tree is empty.
func (t *Tree[K, V]) Max() Cursor[K, V] {
	n := sidemost(t.root, sideRightChild)
	if n == nil {
		return Cursor[K, V]{tree: t, state: StateUntied}
	}
	return Cursor[K, V]{tree: t, node: n, idx: n.maxIdx, side: sideBound, state: StateTied}
}

// Next advances the cursor to the next key in sorted order. It returns
// false (and sets the cursor to Untied) when stepping past the maximum.
func (c *Cursor[K, V]) Next() bool {
	if c.state != StateTied {
		return false
	}
	if c.idx < c.node.maxIdx {
		c.idx++
		return true
	}
	succ := c.node.successor
	if succ == nil {
		*c = Cursor[K, V]{tree: c.tree, state: StateUntied}
		return false
	}
	c.node, c.idx = succ, succ.minIdx
	return true
}

// Prev steps the cursor to the previous key in sorted order. It returns
// false (and sets the cursor to Untied) when stepping past the minimum.
func (c *Cursor[K, V]) Prev() bool {
	if c.state != StateTied {
		return false
	}
	if c.idx > c.node.minIdx {
		c.idx--
		return true
	}
	pred := predecessorNode(c.node)
	if pred == nil {
		*c = Cursor[K, V]{tree: c.tree, state: StateUntied}
		return false
	}
	c.node, c.idx = pred, pred.maxIdx
	return true
}

// predecessorNode finds the node holding the in-order key just before
// n's minimum: if n has a left child, that's the rightmost node of the
// left subtree; otherwise it's the nearest ancestor reached by climbing
// up through a right-child link (spec.md §4.6, cursor_prev).
func predecessorNode[K, V any](n *node[K, V]) *node[K, V] {
	if n.left() != nil {
		return sidemost(n.left(), sideRightChild)
	}
	for cur := n; cur.parent != nil; cur = cur.parent {
		if cur.side == sideRightChild {
			return cur.parent
		}
	}
	return nil
}
