package ttree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newIntTree(t *testing.T, order int) *Tree[int, int] {
	tr, err := NewOrder[int, int](OrderedComparator[int](), order)
	require.NoError(t, err)
	return tr
}

func TestNewOrderRejectsOutOfRange(t *testing.T) {
	_, err := NewOrder[int, int](OrderedComparator[int](), MinOrder-1)
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = NewOrder[int, int](OrderedComparator[int](), MaxOrder+1)
	require.ErrorIs(t, err, ErrInvalidOrder)

	tr, err := NewOrder[int, int](OrderedComparator[int](), MinOrder)
	require.NoError(t, err)
	require.Equal(t, MinOrder, tr.order)
}

func TestInsertLookup(t *testing.T) {
	tr := newIntTree(t, 4)
	keys := []int{10, 20, 5, 40, 30, 1, 25, 35, 15, 22}

	for _, k := range keys {
		require.NoError(t, tr.Insert(k, k*100))
		require.NoErrorf(t, tr.CheckInvariants(), "after inserting %d", k)
	}
	require.Equal(t, len(keys), tr.Len())

	for _, k := range keys {
		v, ok := tr.Lookup(k)
		require.True(t, ok)
		require.Equal(t, k*100, v)
	}

	_, ok := tr.Lookup(999)
	require.False(t, ok)
}

func TestInsertDuplicateRejected(t *testing.T) {
	tr := newIntTree(t, 4)
	require.NoError(t, tr.Insert(1, 1))
	require.ErrorIs(t, tr.Insert(1, 2), ErrDuplicate)
	v, ok := tr.Lookup(1)
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestLookupCursorInsertPlacefulAllowsDuplicates(t *testing.T) {
	tr := newIntTree(t, 4)
	require.NoError(t, tr.Insert(1, 100))

	_, ok, cursor := tr.LookupCursor(1)
	require.True(t, ok)
	tr.InsertPlaceful(&cursor, 1, 200)

	require.Equal(t, 2, tr.Len())
	require.NoError(t, tr.CheckInvariants())
}

func TestDeleteMissingKey(t *testing.T) {
	tr := newIntTree(t, 4)
	require.NoError(t, tr.Insert(1, 1))
	_, ok := tr.Delete(2)
	require.False(t, ok)
	require.Equal(t, 1, tr.Len())
}

func TestReplace(t *testing.T) {
	tr := newIntTree(t, 4)
	require.NoError(t, tr.Insert(1, 1))

	require.NoError(t, tr.Replace(1, 2))
	v, ok := tr.Lookup(1)
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.ErrorIs(t, tr.Replace(99, 0), ErrNotFound)
}

func TestMinMax(t *testing.T) {
	tr := newIntTree(t, 4)
	_, ok := tr.Min().Key()
	require.False(t, ok)

	for _, k := range []int{5, 1, 9, 3, 7} {
		require.NoError(t, tr.Insert(k, k))
	}
	minKey, ok := tr.Min().Key()
	require.True(t, ok)
	require.Equal(t, 1, minKey)

	maxKey, ok := tr.Max().Key()
	require.True(t, ok)
	require.Equal(t, 9, maxKey)
}

func TestCursorTraversalMatchesSortedOrder(t *testing.T) {
	tr := newIntTree(t, 3)
	keys := []int{8, 3, 1, 9, 2, 7, 4, 6, 5, 0, 12, 11, 10}
	for _, k := range keys {
		require.NoError(t, tr.Insert(k, k))
	}

	var forward []int
	for c := tr.Min(); ; {
		k, ok := c.Key()
		if !ok {
			break
		}
		forward = append(forward, k)
		if !c.Next() {
			break
		}
	}

	want := append([]int(nil), keys...)
	sortInts(want)
	require.Equal(t, want, forward)

	var backward []int
	for c := tr.Max(); ; {
		k, ok := c.Key()
		if !ok {
			break
		}
		backward = append(backward, k)
		if !c.Prev() {
			break
		}
	}
	require.Equal(t, len(want), len(backward))
	for i, k := range backward {
		require.Equal(t, want[len(want)-1-i], k)
	}
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	for _, order := range []int{2, 3, 4, 8, 16} {
		tr := newIntTree(t, order)
		present := map[int]bool{}
		rnd := rand.New(rand.NewSource(int64(order)))

		for i := 0; i < 2000; i++ {
			k := rnd.Intn(300)
			if rnd.Intn(3) == 0 && present[k] {
				_, ok := tr.Delete(k)
				require.True(t, ok)
				delete(present, k)
			} else if !present[k] {
				require.NoError(t, tr.Insert(k, k))
				present[k] = true
			}
			require.NoErrorf(t, tr.CheckInvariants(), "order=%d iter=%d key=%d", order, i, k)
		}

		require.Equal(t, len(present), tr.Len())
		for k := range present {
			v, ok := tr.Lookup(k)
			require.True(t, ok)
			require.Equal(t, k, v)
		}

		for k := range present {
			_, ok := tr.Delete(k)
			require.True(t, ok)
		}
		require.True(t, tr.IsEmpty())
		require.Equal(t, 0, tr.Len())
		require.NoError(t, tr.CheckInvariants())
	}
}

func TestDestroyResetsTree(t *testing.T) {
	tr := newIntTree(t, 4)
	for i := 0; i < 50; i++ {
		require.NoError(t, tr.Insert(i, i))
	}
	tr.Destroy()
	require.True(t, tr.IsEmpty())
	require.Equal(t, 0, tr.Len())
	_, ok := tr.Lookup(0)
	require.False(t, ok)
}

func TestFreeListRecyclesNodes(t *testing.T) {
	fl := NewFreeList[int, int](16)
	tr := newIntTree(t, 4)
	tr.SetFreeList(fl)

	for i := 0; i < 50; i++ {
		require.NoError(t, tr.Insert(i, i))
	}
	tr.Destroy()
	require.Zero(t, fl.Outstanding(), "Destroy must return every node it allocated to the free list")

	for i := 0; i < 50; i++ {
		require.NoError(t, tr.Insert(i, i*2))
	}
	require.NoError(t, tr.CheckInvariants())
	tr.Destroy()
	require.Zero(t, fl.Outstanding())
}

func TestDestroyFreesEveryAllocatedNode(t *testing.T) {
	fl := NewFreeList[int, int](4) // smaller than the churn, so puts spill past capacity too
	tr := newIntTree(t, 4)
	tr.SetFreeList(fl)
	rnd := rand.New(rand.NewSource(1))
	present := map[int]bool{}

	for i := 0; i < 500; i++ {
		k := rnd.Intn(200)
		if rnd.Intn(3) == 0 && present[k] {
			_, ok := tr.Delete(k)
			require.True(t, ok)
			delete(present, k)
		} else if !present[k] {
			require.NoError(t, tr.Insert(k, k))
			present[k] = true
		}
	}

	tr.Destroy()
	require.Zerof(t, fl.Outstanding(), "%d nodes allocated but never returned", fl.Outstanding())
}

func TestStringDoesNotPanicOnEmptyTree(t *testing.T) {
	tr := newIntTree(t, 4)
	require.Equal(t, "", tr.String())
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
