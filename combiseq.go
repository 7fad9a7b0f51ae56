// Package combiseq provides CombinedSequence, an ordered collection with
// duplicates that keeps three synchronized backing representations:
// a membership set for O(1) contains checks, a slice for O(1) positional
// reads and amortized O(1) appends, and a tree list for O(log n) positional
// inserts and deletes.
//
// Every operation works on whichever representation serves it best.
// A mutation writes only its primary representation and marks the other two
// stale; a stale representation is rebuilt from a fresh one right before the
// first operation that needs it. Between writes to the same representation
// no synchronization work happens at all.
//
// CombinedSequence is not safe for concurrent use.
package combiseq

import (
	"fmt"
	"iter"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/port/ds"

	"go.llib.dev/combiseq/treelist"
)

const (
	// ErrOutOfRange is returned when a positional operation receives an index
	// outside the valid bounds of the sequence.
	ErrOutOfRange errorkit.Error = "combiseq: index out of range"
	// ErrInvalidatedIteration is the panic value raised when the sequence is
	// structurally modified while an iteration over it is in progress.
	ErrInvalidatedIteration errorkit.Error = "combiseq: sequence modified during iteration"
)

// CombinedSequence is an ordered collection with duplicates.
// Its zero value is a usable empty sequence.
type CombinedSequence[T comparable] struct {
	set  map[T]struct{}
	arr  []T
	tree treelist.TreeList[T]

	// staleness flags; at least one of arr/tree is always fresh
	setStale  bool
	arrStale  bool
	treeStale bool

	// version increments on every structural mutation,
	// iteration captures it to fail fast
	version int

	// rebuilds counts representation rebuilds, used by tests to verify
	// that the staleness protocol does no redundant work
	rebuilds int
}

var _ ds.Sequence[int] = (*CombinedSequence[int])(nil)
var _ ds.Containable[int] = (*CombinedSequence[int])(nil)
var _ ds.SliceConvertible[int] = (*CombinedSequence[int])(nil)
var _ ds.Len = (*CombinedSequence[int])(nil)

// New creates a CombinedSequence populated with the given values,
// preserving their order and duplicates.
func New[T comparable](vs ...T) *CombinedSequence[T] {
	var c CombinedSequence[T]
	c.Append(vs...)
	return &c
}

// refreshArr rebuilds the slice view from the tree view.
func (c *CombinedSequence[T]) refreshArr() {
	// the tree view is necessarily fresh when the slice view is not
	if !c.arrStale {
		return
	}
	c.arr = c.arr[:0]
	for v := range c.tree.Values() {
		c.arr = append(c.arr, v)
	}
	c.arrStale = false
	c.rebuilds++
}

// refreshTree rebuilds the tree view from the slice view.
func (c *CombinedSequence[T]) refreshTree() {
	// the slice view is necessarily fresh when the tree view is not
	if !c.treeStale {
		return
	}
	c.tree = *treelist.From(c.arr...)
	c.treeStale = false
	c.rebuilds++
}

// refreshSet rebuilds the membership set from whichever ordered view is fresh.
func (c *CombinedSequence[T]) refreshSet() {
	if !c.setStale {
		return
	}
	c.set = make(map[T]struct{}, c.Len())
	if !c.arrStale {
		for _, v := range c.arr {
			c.set[v] = struct{}{}
		}
	} else {
		for v := range c.tree.Values() {
			c.set[v] = struct{}{}
		}
	}
	c.setStale = false
	c.rebuilds++
}

// wroteArr marks every representation other than the slice view stale.
func (c *CombinedSequence[T]) wroteArr() {
	c.version++
	c.setStale = true
	c.treeStale = true
}

// wroteTree marks every representation other than the tree view stale.
func (c *CombinedSequence[T]) wroteTree() {
	c.version++
	c.setStale = true
	c.arrStale = true
}

// Len reports the number of elements.
// It never triggers a rebuild, only a freshness check.
func (c *CombinedSequence[T]) Len() int {
	if !c.arrStale {
		return len(c.arr)
	}
	return c.tree.Len()
}

func (c *CombinedSequence[T]) IsEmpty() bool {
	return c.Len() == 0
}

func (c *CombinedSequence[T]) Contains(v T) bool {
	c.refreshSet()
	_, ok := c.set[v]
	return ok
}

func (c *CombinedSequence[T]) ContainsAll(vs ...T) bool {
	c.refreshSet()
	for _, v := range vs {
		if _, ok := c.set[v]; !ok {
			return false
		}
	}
	return true
}

func (c *CombinedSequence[T]) Lookup(index int) (T, bool) {
	c.refreshArr()
	if index < 0 || len(c.arr) <= index {
		var zero T
		return zero, false
	}
	return c.arr[index], true
}

// Set replaces the element at the given index.
// It reports false when the index is out of range; it never clamps.
func (c *CombinedSequence[T]) Set(index int, val T) bool {
	c.refreshArr()
	if index < 0 || len(c.arr) <= index {
		return false
	}
	c.arr[index] = val
	c.wroteArr()
	return true
}

func (c *CombinedSequence[T]) Append(vs ...T) {
	if len(vs) == 0 {
		return
	}
	c.refreshArr()
	c.arr = append(c.arr, vs...)
	c.wroteArr()
}

// Insert places the values before the element currently at the given index.
// index == Len() appends at the end.
func (c *CombinedSequence[T]) Insert(index int, vs ...T) bool {
	c.refreshTree()
	if !c.tree.Insert(index, vs...) {
		return false
	}
	if len(vs) == 0 {
		return true
	}
	c.wroteTree()
	return true
}

func (c *CombinedSequence[T]) Delete(index int) bool {
	_, ok := c.DeleteAt(index)
	return ok
}

// DeleteAt removes the element at the given index and returns it.
func (c *CombinedSequence[T]) DeleteAt(index int) (T, bool) {
	c.refreshTree()
	v, ok := c.tree.DeleteAt(index)
	if ok {
		c.wroteTree()
	}
	return v, ok
}

// Remove deletes the first occurrence of the value.
// It reports false when the value is absent, which is a no-op, not an error.
func (c *CombinedSequence[T]) Remove(v T) bool {
	// the membership set rejects absent values without a tree scan
	if !c.Contains(v) {
		return false
	}
	c.refreshTree()
	var index int
	for got := range c.tree.Values() {
		if got == v {
			break
		}
		index++
	}
	c.tree.Delete(index)
	c.wroteTree()
	return true
}

// RemoveAll deletes every occurrence of every given value.
// It reports whether the sequence changed.
func (c *CombinedSequence[T]) RemoveAll(vs ...T) bool {
	return c.filter(vs, false)
}

// RetainAll deletes every element that is not among the given values.
// It reports whether the sequence changed.
func (c *CombinedSequence[T]) RetainAll(vs ...T) bool {
	return c.filter(vs, true)
}

// filter keeps the elements whose membership in vs equals keep,
// in a single pass with O(1) membership tests on the argument.
func (c *CombinedSequence[T]) filter(vs []T, keep bool) bool {
	c.refreshTree()
	arg := make(map[T]struct{}, len(vs))
	for _, v := range vs {
		arg[v] = struct{}{}
	}
	kept := make([]T, 0, c.tree.Len())
	for v := range c.tree.Values() {
		if _, ok := arg[v]; ok == keep {
			kept = append(kept, v)
		}
	}
	if len(kept) == c.tree.Len() {
		return false
	}
	c.tree = *treelist.From(kept...)
	c.wroteTree()
	return true
}

// IndexOf returns the index of the first occurrence of the value, or -1.
func (c *CombinedSequence[T]) IndexOf(v T) int {
	c.refreshArr()
	for i, got := range c.arr {
		if got == v {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the index of the last occurrence of the value, or -1.
func (c *CombinedSequence[T]) LastIndexOf(v T) int {
	c.refreshArr()
	for i := len(c.arr) - 1; 0 <= i; i-- {
		if c.arr[i] == v {
			return i
		}
	}
	return -1
}

// SubSequence returns a new CombinedSequence holding a snapshot of the
// [lo, hi) index range. The snapshot is independent of the receiver:
// later mutations of either are not visible in the other.
func (c *CombinedSequence[T]) SubSequence(lo, hi int) (*CombinedSequence[T], error) {
	if lo < 0 || hi < lo || c.Len() < hi {
		return nil, ErrOutOfRange.F("sub-sequence bounds [%d, %d) on %d element(s)", lo, hi, c.Len())
	}
	c.refreshTree()
	var vs []T
	for v := range c.tree.Range(lo, hi) {
		vs = append(vs, v)
	}
	return New[T](vs...), nil
}

// Range yields the elements of the [lo, hi) index range in order.
// Bounds outside the sequence are clipped. Like Values, the iteration is
// fail-fast against structural mutations.
func (c *CombinedSequence[T]) Range(lo, hi int) iter.Seq[T] {
	return func(yield func(T) bool) {
		c.refreshTree()
		version := c.version
		for v := range c.tree.Range(lo, hi) {
			if version != c.version {
				panic(ErrInvalidatedIteration)
			}
			if !yield(v) {
				return
			}
		}
	}
}

func (c *CombinedSequence[T]) ToSlice() []T {
	c.refreshArr()
	var vs []T
	return append(vs, c.arr...)
}

// Values yields the elements in order. The iteration is fail-fast:
// a structural mutation of the sequence while the iteration is in progress
// makes the next step panic with ErrInvalidatedIteration rather than
// yield possibly inconsistent values.
func (c *CombinedSequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		c.refreshArr()
		var (
			arr     = c.arr
			version = c.version
		)
		for _, v := range arr {
			if version != c.version {
				panic(ErrInvalidatedIteration)
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Clear removes every element and leaves all three representations
// empty and fresh.
func (c *CombinedSequence[T]) Clear() {
	c.version++
	c.set = nil
	c.arr = nil
	c.tree.Clear()
	c.setStale = false
	c.arrStale = false
	c.treeStale = false
}

// Clone returns an independent CombinedSequence with the same logical content.
func (c *CombinedSequence[T]) Clone() *CombinedSequence[T] {
	return New[T](c.ToSlice()...)
}

// Equal reports whether the two sequences hold the same elements in the
// same order. It compares logical content through whichever ordered view
// is fresh on each side, without triggering a rebuild.
func (c *CombinedSequence[T]) Equal(oth *CombinedSequence[T]) bool {
	if oth == nil {
		return false
	}
	if c.Len() != oth.Len() {
		return false
	}
	next, stop := iter.Pull(oth.freshValues())
	defer stop()
	for v := range c.freshValues() {
		ov, ok := next()
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// EqualSlice reports whether the logical content equals the given slice.
func (c *CombinedSequence[T]) EqualSlice(vs []T) bool {
	if c.Len() != len(vs) {
		return false
	}
	var i int
	for v := range c.freshValues() {
		if vs[i] != v {
			return false
		}
		i++
	}
	return true
}

func (c *CombinedSequence[T]) String() string {
	if !c.arrStale {
		return fmt.Sprint(c.arr)
	}
	return fmt.Sprint(c.tree.ToSlice())
}

// freshValues iterates the logical content through whichever ordered view
// is fresh, without forcing a rebuild and without fail-fast guarding.
func (c *CombinedSequence[T]) freshValues() iter.Seq[T] {
	if !c.arrStale {
		return func(yield func(T) bool) {
			for _, v := range c.arr {
				if !yield(v) {
					return
				}
			}
		}
	}
	return c.tree.Values()
}
