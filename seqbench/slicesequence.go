package seqbench

import (
	"iter"

	"go.llib.dev/frameless/port/ds"
)

// SliceSequence is a plain slice-backed sequence.
// It is the baseline candidate every other implementation is compared to.
type SliceSequence[T comparable] struct {
	vs []T
}

var _ Candidate[int] = (*SliceSequence[int])(nil)
var _ ds.Containable[int] = (*SliceSequence[int])(nil)
var _ ds.SliceConvertible[int] = (*SliceSequence[int])(nil)

func (s *SliceSequence[T]) Len() int {
	return len(s.vs)
}

func (s *SliceSequence[T]) Lookup(index int) (T, bool) {
	if index < 0 || len(s.vs) <= index {
		var zero T
		return zero, false
	}
	return s.vs[index], true
}

func (s *SliceSequence[T]) Set(index int, val T) bool {
	if index < 0 || len(s.vs) <= index {
		return false
	}
	s.vs[index] = val
	return true
}

func (s *SliceSequence[T]) Append(vs ...T) {
	s.vs = append(s.vs, vs...)
}

func (s *SliceSequence[T]) Insert(index int, vs ...T) bool {
	if index < 0 || len(s.vs) < index {
		return false
	}
	s.vs = append(s.vs[:index:index], append(append([]T{}, vs...), s.vs[index:]...)...)
	return true
}

func (s *SliceSequence[T]) Delete(index int) bool {
	if index < 0 || len(s.vs) <= index {
		return false
	}
	s.vs = append(s.vs[:index], s.vs[index+1:]...)
	return true
}

func (s *SliceSequence[T]) Contains(v T) bool {
	for _, got := range s.vs {
		if got == v {
			return true
		}
	}
	return false
}

func (s *SliceSequence[T]) IndexOf(v T) int {
	for i, got := range s.vs {
		if got == v {
			return i
		}
	}
	return -1
}

func (s *SliceSequence[T]) LastIndexOf(v T) int {
	for i := len(s.vs) - 1; 0 <= i; i-- {
		if s.vs[i] == v {
			return i
		}
	}
	return -1
}

func (s *SliceSequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.vs {
			if !yield(v) {
				return
			}
		}
	}
}

func (s *SliceSequence[T]) Range(lo, hi int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if lo < 0 {
			lo = 0
		}
		if len(s.vs) < hi {
			hi = len(s.vs)
		}
		for ; lo < hi; lo++ {
			if !yield(s.vs[lo]) {
				return
			}
		}
	}
}

func (s *SliceSequence[T]) ToSlice() []T {
	var vs []T
	return append(vs, s.vs...)
}

func (s *SliceSequence[T]) Clear() {
	s.vs = nil
}
