package ttree

import "sync"

// DefaultFreeListSize is a stock capacity for NewFreeList. New and
// NewOrder install no FreeList; a tree allocates with plain new until
// SetFreeList installs one.
const DefaultFreeListSize = 32

// FreeList is a mutex-guarded pool of recycled nodes, shared optionally
// across one or more trees of the same [K, V] to cut allocator pressure
// from the steady churn of leaf attach/unlink that every insert and
// delete produces. Installing one is purely a performance knob — a
// *Tree with no FreeList allocates with plain new(node[K,V]) (adapted
// from EMnify-btree's FreeList/copyOnWriteContext).
type FreeList[K, V any] struct {
	mu       sync.Mutex
	freelist []*node[K, V]
	gets     int64
	puts     int64
}

// NewFreeList creates a free list that holds at most size recycled
// nodes; nodes freed beyond that are simply dropped for the GC to
// collect.
func NewFreeList[K, V any](size int) *FreeList[K, V] {
	return &FreeList[K, V]{freelist: make([]*node[K, V], 0, size)}
}

func (f *FreeList[K, V]) get() *node[K, V] {
	f.mu.Lock()
	f.gets++
	index := len(f.freelist) - 1
	if index < 0 {
		f.mu.Unlock()
		return new(node[K, V])
	}
	n := f.freelist[index]
	f.freelist[index] = nil
	f.freelist = f.freelist[:index]
	f.mu.Unlock()
	return n
}

// put adds n to the list, returning true if it was kept and false if
// the list was already full and n was discarded. Either way n is
// considered returned to the list for Outstanding's accounting.
func (f *FreeList[K, V]) put(n *node[K, V]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if len(f.freelist) < cap(f.freelist) {
		f.freelist = append(f.freelist, n)
		return true
	}
	return false
}

// Outstanding reports how many nodes obtained from this list via get
// have not yet been returned via put. A *Tree drives get/put in lockstep
// with node allocation/destruction, so Outstanding reaching 0 after
// Destroy is the leak-free-destroy property (spec.md §8 invariant 7)
// made checkable rather than asserted.
func (f *FreeList[K, V]) Outstanding() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets - f.puts
}
