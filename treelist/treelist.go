// Package treelist provides TreeList, an ordered collection with duplicates
// that supports positional access, insert and delete in O(log n) time.
//
// The backing structure is a size-augmented AVL tree: each node records the
// number of elements in its subtree, so a position resolves to a node by
// walking down from the root, and every mutation rebalances along a single
// root-to-leaf path.
package treelist

import (
	"iter"

	"go.llib.dev/frameless/port/ds"
)

// TreeList is an indexable sequence. Its zero value is a usable empty list.
type TreeList[T any] struct {
	root *node[T]
}

var _ ds.Sequence[any] = (*TreeList[any])(nil)
var _ ds.SliceConvertible[any] = (*TreeList[any])(nil)
var _ ds.Len = (*TreeList[any])(nil)

type node[T any] struct {
	value  T
	left   *node[T]
	right  *node[T]
	height int
	size   int
}

// From creates a TreeList populated with the given values.
// The tree is built balanced in O(n) time.
func From[T any](vs ...T) *TreeList[T] {
	return &TreeList[T]{root: build(vs)}
}

func build[T any](vs []T) *node[T] {
	if len(vs) == 0 {
		return nil
	}
	mid := len(vs) / 2
	n := &node[T]{value: vs[mid]}
	n.left = build(vs[:mid])
	n.right = build(vs[mid+1:])
	n.update()
	return n
}

func (tl *TreeList[T]) Len() int {
	return size(tl.root)
}

func (tl *TreeList[T]) Lookup(index int) (T, bool) {
	if index < 0 || size(tl.root) <= index {
		var zero T
		return zero, false
	}
	n := tl.root
	for {
		ls := size(n.left)
		switch {
		case index < ls:
			n = n.left
		case ls < index:
			index -= ls + 1
			n = n.right
		default:
			return n.value, true
		}
	}
}

func (tl *TreeList[T]) Set(index int, val T) bool {
	if index < 0 || size(tl.root) <= index {
		return false
	}
	n := tl.root
	for {
		ls := size(n.left)
		switch {
		case index < ls:
			n = n.left
		case ls < index:
			index -= ls + 1
			n = n.right
		default:
			n.value = val
			return true
		}
	}
}

func (tl *TreeList[T]) Append(vs ...T) {
	for _, v := range vs {
		tl.root = insertAt(tl.root, size(tl.root), v)
	}
}

// Insert places the values before the element currently at the given index.
// index == Len() appends at the end.
func (tl *TreeList[T]) Insert(index int, vs ...T) bool {
	if index < 0 || size(tl.root) < index {
		return false
	}
	for i, v := range vs {
		tl.root = insertAt(tl.root, index+i, v)
	}
	return true
}

func (tl *TreeList[T]) Delete(index int) bool {
	_, ok := tl.DeleteAt(index)
	return ok
}

// DeleteAt removes the element at the given index and returns it.
func (tl *TreeList[T]) DeleteAt(index int) (T, bool) {
	if index < 0 || size(tl.root) <= index {
		var zero T
		return zero, false
	}
	root, removed := deleteAt(tl.root, index)
	tl.root = root
	return removed, true
}

func (tl *TreeList[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		inorder(tl.root, yield)
	}
}

// Range yields the elements of the [lo, hi) index range in order,
// in O(log n + hi - lo) time. Bounds outside the list are clipped.
func (tl *TreeList[T]) Range(lo, hi int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if lo < 0 {
			lo = 0
		}
		if n := size(tl.root); n < hi {
			hi = n
		}
		rangeSeq(tl.root, lo, hi, yield)
	}
}

func (tl *TreeList[T]) ToSlice() []T {
	var vs []T
	for v := range tl.Values() {
		vs = append(vs, v)
	}
	return vs
}

func (tl *TreeList[T]) Clear() {
	tl.root = nil
}

func size[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func height[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node[T]) update() {
	n.height = 1 + max(height(n.left), height(n.right))
	n.size = 1 + size(n.left) + size(n.right)
}

func insertAt[T any](n *node[T], index int, v T) *node[T] {
	if n == nil {
		return &node[T]{value: v, height: 1, size: 1}
	}
	if ls := size(n.left); index <= ls {
		n.left = insertAt(n.left, index, v)
	} else {
		n.right = insertAt(n.right, index-ls-1, v)
	}
	return rebalance(n)
}

func deleteAt[T any](n *node[T], index int) (*node[T], T) {
	var removed T
	ls := size(n.left)
	switch {
	case index < ls:
		n.left, removed = deleteAt(n.left, index)
	case ls < index:
		n.right, removed = deleteAt(n.right, index-ls-1)
	default:
		removed = n.value
		if n.left == nil {
			return n.right, removed
		}
		if n.right == nil {
			return n.left, removed
		}
		// replace with the in-order successor
		var succ T
		n.right, succ = deleteAt(n.right, 0)
		n.value = succ
	}
	return rebalance(n), removed
}

func rebalance[T any](n *node[T]) *node[T] {
	n.update()
	switch balance := height(n.left) - height(n.right); {
	case 1 < balance:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		n = rotateRight(n)
	case balance < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		n = rotateLeft(n)
	}
	return n
}

func rotateLeft[T any](n *node[T]) *node[T] {
	pivot := n.right
	n.right = pivot.left
	pivot.left = n
	n.update()
	pivot.update()
	return pivot
}

func rotateRight[T any](n *node[T]) *node[T] {
	pivot := n.left
	n.left = pivot.right
	pivot.right = n
	n.update()
	pivot.update()
	return pivot
}

func inorder[T any](n *node[T], yield func(T) bool) bool {
	if n == nil {
		return true
	}
	return inorder(n.left, yield) && yield(n.value) && inorder(n.right, yield)
}

func rangeSeq[T any](n *node[T], lo, hi int, yield func(T) bool) bool {
	if n == nil || hi <= lo {
		return true
	}
	ls := size(n.left)
	if lo < ls {
		if !rangeSeq(n.left, lo, min(hi, ls), yield) {
			return false
		}
	}
	if lo <= ls && ls < hi {
		if !yield(n.value) {
			return false
		}
	}
	if ls+1 < hi {
		if !rangeSeq(n.right, max(0, lo-ls-1), hi-ls-1, yield) {
			return false
		}
	}
	return true
}
