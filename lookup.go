package ttree

// Lookup finds key in the tree and returns its value. ok is false if key
// is absent.
func (t *Tree[K, V]) Lookup(key K) (value V, ok bool) {
	r := t.search(key)
	if !r.found {
		return value, false
	}
	return r.node.values[r.idx], true
}

// LookupCursor is Lookup, additionally returning a cursor positioned at
// key (Tied) or at key's would-be insertion point (Pending) so a caller
// can follow up with InsertPlaceful or DeletePlaceful without
// re-descending the tree.
func (t *Tree[K, V]) LookupCursor(key K) (value V, ok bool, cursor Cursor[K, V]) {
	r := t.search(key)
	cursor = cursorFromResult(t, r)
	if !r.found {
		return value, false, cursor
	}
	return r.node.values[r.idx], true, cursor
}
