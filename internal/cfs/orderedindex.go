// Ordered Index: a self-balancing ordered container of *Task references,
// parameterized by a comparator, with O(log n) insert/remove and O(1)
// minimum via a cached leftmost pointer.
//
// The balanced tree itself is github.com/google/btree's generic BTreeG,
// the same "keyed container + uniqueness index" shape used by btree-backed
// schedulers elsewhere: tasks are compared by a caller-supplied Less, and
// removal is by value (under the comparator), not by tree position. The
// container does not own task memory; tasks outlive their residency in any
// given index.

package cfs

import "github.com/google/btree"

const orderedIndexDegree = 32

// OrderedIndex is a total-ordered set of *Task, keyed by less.
type OrderedIndex struct {
	tree *btree.BTreeG[*Task]
	less func(a, b *Task) bool

	// Cached leftmost element, kept in sync on Insert/Remove so Min is always
	// O(1). When the cached element itself is removed, Remove recomputes it
	// once from the tree (O(log n)).
	leftmost *Task
}

// NewOrderedIndex creates an empty index ordered by less, which must impose
// a strict total order (ties are expected to be broken by pid).
func NewOrderedIndex(less func(a, b *Task) bool) *OrderedIndex {
	return &OrderedIndex{
		tree: btree.NewG(orderedIndexDegree, less),
		less: less,
	}
}

// sameKey reports whether a and b are equal under the index's comparator.
func (idx *OrderedIndex) sameKey(a, b *Task) bool {
	return !idx.less(a, b) && !idx.less(b, a)
}

// Insert adds t to the index. The caller guarantees pid uniqueness across
// the simulation; inserting a task already present under the comparator
// replaces it (the underlying tree's ReplaceOrInsert semantics).
func (idx *OrderedIndex) Insert(t *Task) {
	idx.tree.ReplaceOrInsert(t)
	if idx.leftmost == nil || !idx.less(idx.leftmost, t) {
		idx.leftmost = t
	}
}

// Remove deletes the element equal to t under the comparator. It is a
// no-op if no such element is present.
func (idx *OrderedIndex) Remove(t *Task) {
	removed, ok := idx.tree.Delete(t)
	if !ok {
		return
	}
	if idx.leftmost != nil && idx.sameKey(removed, idx.leftmost) {
		idx.leftmost, _ = idx.tree.Min()
	}
}

// Min returns the element with the smallest key under the comparator, or
// nil if the index is empty.
func (idx *OrderedIndex) Min() *Task {
	return idx.leftmost
}

// Count returns the current cardinality.
func (idx *OrderedIndex) Count() int {
	return idx.tree.Len()
}

// ByVRuntime orders tasks by (v_runtime, pid), as required for the ready
// index.
func ByVRuntime(a, b *Task) bool {
	if c := CompareVRuntime(a.VRuntime, b.VRuntime); c != 0 {
		return c < 0
	}
	return a.Pid < b.Pid
}

// ByArrival orders tasks by (arrival, pid), as required for the pending
// index.
func ByArrival(a, b *Task) bool {
	if a.Metrics.Arrival != b.Metrics.Arrival {
		return a.Metrics.Arrival < b.Metrics.Arrival
	}
	return a.Pid < b.Pid
}
