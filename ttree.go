// Package ttree implements an in-memory T*-tree, an ordered index tuned
// for main-memory database systems: it combines AVL balance with small
// sorted arrays of keys packed into each node, trading the single-key
// pointer chasing of a binary search tree for fewer, denser node visits.
//
// Within this tree, each node holds up to order keys in a dense array
// (occupied positions always form a contiguous [min_idx, max_idx] range)
// plus left/right/parent links and a successor link used to walk the
// in-order sequence across node boundaries in O(1) without recomputing it.
//
// Keys and values are stored by value in each node's arrays; Destroy
// releases the nodes without doing anything else to the keys or values.
package ttree

import (
	"fmt"
)

const (
	// DefaultOrder is the number of keys per node used by New.
	DefaultOrder = 8
	// MinOrder is the smallest allowed order (original_source/ttree.h: TNODE_ITEMS_MIN).
	MinOrder = 2
	// MaxOrder is the largest allowed order (original_source/ttree.h: TNODE_ITEMS_MAX, 1<<11).
	MaxOrder = 1 << 11
)

// Comparator returns a negative number if a < b, zero if a == b, and a
// positive number if a > b. It must provide a total order over K.
type Comparator[K any] func(a, b K) int

// nodeSide records which child of its parent a node is.
type nodeSide int8

const (
	sideLeftChild nodeSide = iota
	sideRightChild
	sideRootNode
)

// node is a single T*-tree node: a dense, sorted array of up to
// tree.order keys (and their matching values), left/right/parent links,
// and the successor thread used for O(1) in-order stepping across node
// boundaries.
type node[K, V any] struct {
	parent    *node[K, V]
	children  [2]*node[K, V] // children[sideLeftChild], children[sideRightChild]
	successor *node[K, V]

	keys   []K
	values []V
	minIdx int
	maxIdx int

	bf     int8
	height int8
	side   nodeSide
}

func (n *node[K, V]) left() *node[K, V]  { return n.children[sideLeftChild] }
func (n *node[K, V]) right() *node[K, V] { return n.children[sideRightChild] }

func (n *node[K, V]) setChild(side nodeSide, c *node[K, V]) {
	n.children[side] = c
	if c != nil {
		c.parent = n
		c.side = side
	}
}

func (n *node[K, V]) count() int {
	if n == nil {
		return 0
	}
	return n.maxIdx - n.minIdx + 1
}

func (n *node[K, V]) isEmpty() bool { return n.count() <= 0 }

func (n *node[K, V]) isFull(order int) bool { return n.count() == order }

func (n *node[K, V]) isLeaf() bool { return n.left() == nil && n.right() == nil }

func (n *node[K, V]) isHalfLeaf() bool {
	return (n.left() == nil) != (n.right() == nil)
}

func (n *node[K, V]) minKey() K { return n.keys[n.minIdx] }
func (n *node[K, V]) maxKey() K { return n.keys[n.maxIdx] }

// heightOf returns n's cached subtree height, treating nil as height 0.
func heightOf[K, V any](n *node[K, V]) int8 {
	if n == nil {
		return 0
	}
	return n.height
}

func max8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}

// recomputeHeight refreshes n.height and n.bf from its children's cached
// heights and reports whether the height changed, which tells a caller
// walking toward the root whether it needs to keep walking.
func (n *node[K, V]) recomputeHeight() bool {
	h := 1 + max8(heightOf(n.left()), heightOf(n.right()))
	n.bf = heightOf(n.right()) - heightOf(n.left())
	changed := h != n.height
	n.height = h
	return changed
}

// successorOf computes n's successor purely from tree structure: the
// leftmost node of n's right subtree, or the nearest ancestor reached by
// climbing up through a left-child link. It is the mirror image of
// predecessorNode and is used to repair successor threads after a
// rotation moves nodes between subtrees.
func successorOf[K, V any](n *node[K, V]) *node[K, V] {
	if n.right() != nil {
		return sidemost(n.right(), sideLeftChild)
	}
	for cur := n; cur.parent != nil; cur = cur.parent {
		if cur.side == sideLeftChild {
			return cur.parent
		}
	}
	return nil
}

func fixSuccessor[K, V any](n *node[K, V]) {
	if n != nil {
		n.successor = successorOf(n)
	}
}

// otherSide returns the opposite child slot.
func otherSide(s nodeSide) nodeSide {
	if s == sideLeftChild {
		return sideRightChild
	}
	return sideLeftChild
}

// sidemost walks down side (sideLeftChild => leftmost, sideRightChild =>
// rightmost) until it runs out of children.
func sidemost[K, V any](n *node[K, V], side nodeSide) *node[K, V] {
	if n == nil {
		return nil
	}
	for n.children[side] != nil {
		n = n.children[side]
	}
	return n
}

// boundNode returns the node holding the glb (side=sideLeftChild) or lub
// (side=sideRightChild) of n's subtree: the node nearest to n on the
// given side, approached by always stepping toward n afterward.
// Mirrors original_source/ttree.h's __tnode_get_bound.
func boundNode[K, V any](n *node[K, V], side nodeSide) *node[K, V] {
	if n == nil || n.children[side] == nil {
		return nil
	}
	b := n.children[side]
	for b.children[otherSide(side)] != nil {
		b = b.children[otherSide(side)]
	}
	return b
}

// Tree is a T*-tree: an ordered map from K to V, keeping up to `order`
// keys per node.
type Tree[K, V any] struct {
	root  *node[K, V]
	cmp   Comparator[K]
	order int
	count int

	logger   Logger
	freeList *FreeList[K, V]
}

// New creates a tree with the default order (8 keys per node).
func New[K, V any](cmp Comparator[K]) *Tree[K, V] {
	t, err := NewOrder[K, V](cmp, DefaultOrder)
	if err != nil {
		// DefaultOrder is always in range; this can't happen.
		panic(err)
	}
	return t
}

// NewOrder creates a tree holding up to order keys per node. order must
// be in [MinOrder, MaxOrder].
func NewOrder[K, V any](cmp Comparator[K], order int) (*Tree[K, V], error) {
	if order < MinOrder || order > MaxOrder {
		return nil, fmt.Errorf("%w: order=%d, want %d..%d", ErrInvalidOrder, order, MinOrder, MaxOrder)
	}
	return &Tree[K, V]{
		cmp:    cmp,
		order:  order,
		logger: NopLogger{},
	}, nil
}

// SetLogger installs l as the tree's structural-event logger. Passing nil
// restores the no-op logger.
func (t *Tree[K, V]) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	t.logger = l
}

// SetFreeList installs fl as the tree's node allocator/recycler. Passing
// nil reverts to plain new(node[K,V]) allocation.
func (t *Tree[K, V]) SetFreeList(fl *FreeList[K, V]) {
	t.freeList = fl
}

// Len returns the number of keys currently stored in the tree.
func (t *Tree[K, V]) Len() int { return t.count }

// IsEmpty reports whether the tree holds no keys.
func (t *Tree[K, V]) IsEmpty() bool { return t.root == nil }

// Destroy drops every node in the tree. It does not touch the keys or
// values themselves, only the nodes that referenced them (spec: ttree_destroy
// frees nodes but not items).
func (t *Tree[K, V]) Destroy() {
	t.destroySubtree(t.root)
	t.root = nil
	t.count = 0
}

func (t *Tree[K, V]) destroySubtree(n *node[K, V]) {
	if n == nil {
		return
	}
	t.destroySubtree(n.left())
	t.destroySubtree(n.right())
	t.freeNode(n)
}

func (t *Tree[K, V]) newNode() *node[K, V] {
	var n *node[K, V]
	if t.freeList != nil {
		n = t.freeList.get()
	} else {
		n = new(node[K, V])
	}
	if n.keys == nil || cap(n.keys) < t.order {
		n.keys = make([]K, t.order)
		n.values = make([]V, t.order)
	}
	n.parent = nil
	n.children = [2]*node[K, V]{}
	n.successor = nil
	n.minIdx, n.maxIdx = 0, -1
	n.bf = 0
	n.height = 1
	t.logger.Debug("ttree: node allocated")
	return n
}

func (t *Tree[K, V]) freeNode(n *node[K, V]) {
	if n == nil {
		return
	}
	t.logger.Debug("ttree: node freed")
	if t.freeList != nil {
		t.freeList.put(n)
	}
}

// minKeys is the floor invariant on internal nodes (spec.md §3 invariant
// 3): the T*-tree maintains at least order/2 keys in every node that has
// both children.
func (t *Tree[K, V]) minKeys() int {
	return (t.order + 1) / 2
}

// searchResult is the outcome of descending the tree looking for a key.
// It doubles as the internal representation behind a public Cursor.
type searchResult[K, V any] struct {
	node  *node[K, V] // bounding node (found==true) or candidate parent (found==false)
	idx   int         // index within node.keys, valid when side==sideBound
	side  cursorSide
	found bool
}

// search descends from the root looking for key, returning the bounding
// node for it (spec.md §4.1). If the key is absent, it returns the
// position a placeful insert should use: room inside an existing node
// (side=sideBound, including the node n landed on when it has no child
// on the side key would have descended into, as long as n still has
// spare capacity) or, only once that node is full, a new-leaf
// attachment point (side=sideLeft/sideRight).
func (t *Tree[K, V]) search(key K) searchResult[K, V] {
	n := t.root
	if n == nil {
		return searchResult[K, V]{side: sideLeft}
	}
	for {
		switch {
		case t.cmp(key, n.minKey()) < 0:
			if n.left() == nil {
				if n.count() < t.order {
					return searchResult[K, V]{node: n, idx: n.minIdx, side: sideBound}
				}
				return searchResult[K, V]{node: n, side: sideLeft}
			}
			n = n.left()
		case t.cmp(key, n.maxKey()) > 0:
			if n.right() == nil {
				if n.count() < t.order {
					return searchResult[K, V]{node: n, idx: n.maxIdx + 1, side: sideBound}
				}
				return searchResult[K, V]{node: n, side: sideRight}
			}
			n = n.right()
		default:
			idx, found := t.findInNode(n, key)
			return searchResult[K, V]{node: n, idx: idx, side: sideBound, found: found}
		}
	}
}

// findInNode binary-searches n's dense key range [minIdx, maxIdx] for
// key, returning either the index of an equal key (found=true) or the
// index key would occupy if inserted (found=false).
func (t *Tree[K, V]) findInNode(n *node[K, V], key K) (idx int, found bool) {
	lo, hi := n.minIdx, n.maxIdx+1
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.cmp(key, n.keys[mid]) <= 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo <= n.maxIdx && t.cmp(n.keys[lo], key) == 0 {
		return lo, true
	}
	return lo, false
}
