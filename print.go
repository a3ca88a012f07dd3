package ttree

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// CheckInvariants walks the whole tree and verifies every structural
// invariant: sortedness, AVL balance, the half-full occupancy floor on
// internal nodes, the bounding relationship between a node's range and
// its children's, parent/side consistency, and that the successor
// thread matches a plain recursive in-order walk. It is O(n) and meant
// for tests and debugging, not the hot path.
func (t *Tree[K, V]) CheckInvariants() error {
	var errs []error
	t.checkNode(t.root, nil, sideRootNode, &errs)
	if err := t.checkSuccessorThread(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Errorf("ttree: %d invariant violation(s): %v", len(errs), errs)
}

func (t *Tree[K, V]) checkNode(n, parent *node[K, V], side nodeSide, errs *[]error) {
	if n == nil {
		return
	}
	fail := func(format string, args ...any) {
		*errs = append(*errs, errors.Errorf(format, args...))
	}

	if n.parent != parent {
		fail("node %v: parent link mismatch", n.minKey())
	}
	if n.side != side {
		fail("node %v: side link mismatch", n.minKey())
	}
	if n.isEmpty() {
		fail("node %v: empty node left in tree", n.minKey())
	}
	if n.count() > t.order {
		fail("node %v: count %d exceeds order %d", n.minKey(), n.count(), t.order)
	}
	if !n.isLeaf() && !n.isHalfLeaf() && n.count() < t.minKeys() {
		fail("node %v: internal node has %d keys, below floor %d", n.minKey(), n.count(), t.minKeys())
	}
	for i := n.minIdx; i < n.maxIdx; i++ {
		if t.cmp(n.keys[i], n.keys[i+1]) > 0 {
			fail("node %v: keys out of order at index %d", n.minKey(), i)
		}
	}

	wantHeight := 1 + max8(heightOf(n.left()), heightOf(n.right()))
	wantBF := heightOf(n.right()) - heightOf(n.left())
	if n.height != wantHeight {
		fail("node %v: cached height %d, want %d", n.minKey(), n.height, wantHeight)
	}
	if n.bf != wantBF {
		fail("node %v: cached bf %d, want %d", n.minKey(), n.bf, wantBF)
	}
	if wantBF > 1 || wantBF < -1 {
		fail("node %v: unbalanced, bf=%d", n.minKey(), wantBF)
	}

	// Bounding must hold against the *entire* child subtree, not just
	// the immediate child's own array — a left child's right descendant
	// can easily hold a larger key than the left child itself.
	if l := n.left(); l != nil {
		if lmax := sidemost(l, sideRightChild); t.cmp(lmax.maxKey(), n.minKey()) > 0 {
			fail("node %v: left subtree holds a key greater than node min", n.minKey())
		}
	}
	if r := n.right(); r != nil {
		if rmin := sidemost(r, sideLeftChild); t.cmp(rmin.minKey(), n.maxKey()) < 0 {
			fail("node %v: right subtree holds a key less than node max", n.minKey())
		}
	}

	t.checkNode(n.left(), n, sideLeftChild, errs)
	t.checkNode(n.right(), n, sideRightChild, errs)
}

// checkSuccessorThread compares the successor-linked walk against a
// plain recursive in-order traversal over the same tree.
func (t *Tree[K, V]) checkSuccessorThread() error {
	var inOrder []*node[K, V]
	var walk func(n *node[K, V])
	walk = func(n *node[K, V]) {
		if n == nil {
			return
		}
		walk(n.left())
		inOrder = append(inOrder, n)
		walk(n.right())
	}
	walk(t.root)

	for i, n := range inOrder {
		var want *node[K, V]
		if i+1 < len(inOrder) {
			want = inOrder[i+1]
		}
		if n.successor != want {
			return errors.Errorf("ttree: node %v has wrong successor", n.minKey())
		}
	}

	// Belt-and-suspenders global sortedness: flatten every key (not just
	// one per node) via the same traversal and check that keys never
	// decrease end to end (equal keys come from InsertPlaceful
	// duplicates), independent of the per-node bounding checks above.
	var prev K
	havePrev := false
	for _, n := range inOrder {
		for i := n.minIdx; i <= n.maxIdx; i++ {
			if havePrev && t.cmp(prev, n.keys[i]) > 0 {
				return errors.Errorf("ttree: global key order violated at %v", n.keys[i])
			}
			prev, havePrev = n.keys[i], true
		}
	}
	return nil
}

// String renders the tree as an indented, parenthesized outline, one
// node per line, for use in tests and ad-hoc debugging. It goes through
// Fprint, so its balance factors carry the same color codes whenever
// color output is enabled.
func (t *Tree[K, V]) String() string {
	var sb strings.Builder
	t.Fprint(&sb)
	return sb.String()
}

// Fprint writes the same outline as String to w, colorizing each node's
// balance factor whenever fatih/color's output is enabled — by default
// when the process's stdout is a terminal; w itself is not inspected
// (balanced in green, leaning in yellow, a real violation in red —
// useful when chasing a rebalance bug interactively).
func (t *Tree[K, V]) Fprint(w io.Writer) {
	t.fprintNode(w, t.root, 0)
}

func (t *Tree[K, V]) fprintNode(w io.Writer, n *node[K, V], depth int) {
	if n == nil {
		return
	}
	t.fprintNode(w, n.left(), depth+1)

	bf := bfColor(n.bf).Sprintf("bf=%d", n.bf)
	fmt.Fprintf(w, "%s[%v..%v] %s\n", strings.Repeat("  ", depth), n.minKey(), n.maxKey(), bf)

	t.fprintNode(w, n.right(), depth+1)
}

func bfColor(bf int8) *color.Color {
	switch {
	case bf == 0:
		return color.New(color.FgGreen)
	case bf == 1 || bf == -1:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
