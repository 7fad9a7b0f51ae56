package seqbench

import (
	"iter"

	"go.llib.dev/frameless/port/ds"
)

// DefaultTasks is the standard task list: one tight loop per operation of
// the sequence contract, sized relative to the populate size so that the
// expensive operations do not dominate the run.
func DefaultTasks[T comparable]() []Task[T] {
	return []Task[T]{
		{
			Name:  "append",
			Loops: func(size int) int { return size },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				seq.Append(env.MakeElem(env.Size + i))
			},
		},
		{
			Name:  "remove by value",
			Loops: func(size int) int { return max(1, size/10) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				removeValue(seq, env.Values[len(env.Values)-1-i%len(env.Values)])
			},
		},
		{
			Name:  "append bulk",
			Loops: func(size int) int { return min(size, 1000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				seq.Append(env.Bulk...)
			},
		},
		{
			Name:  "contains",
			Loops: func(size int) int { return min(size, 1000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				contains(seq, env.Values[i%len(env.Values)])
			},
		},
		{
			Name:  "remove all bulk",
			Loops: func(size int) int { return min(size, 10) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				removeAll(seq, env.Bulk)
			},
		},
		{
			Name:  "iterate",
			Loops: func(size int) int { return size },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				for range seq.Values() {
					// drain
				}
			},
		},
		{
			Name:  "contains all bulk",
			Loops: func(size int) int { return min(size, 5000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				containsAll(seq, env.Bulk)
			},
		},
		{
			Name:  "to slice",
			Loops: func(size int) int { return min(size, 5000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				toSlice(seq)
			},
		},
		{
			Name:  "clear",
			Loops: func(size int) int { return 1 },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				seq.Clear()
			},
		},
		{
			Name:  "retain all bulk",
			Loops: func(size int) int { return min(size, 10) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				retainAll(seq, env.Bulk)
			},
		},
		{
			Name:  "insert at index",
			Loops: func(size int) int { return size },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				seq.Insert(i, env.MakeElem(i))
			},
		},
		{
			Name:  "insert bulk at index",
			Loops: func(size int) int { return min(size, 1000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				seq.Insert(i, env.Bulk...)
			},
		},
		{
			Name:  "lookup",
			Loops: func(size int) int { return min(size, 50000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				if n := seq.Len(); 0 < n {
					seq.Lookup(i % n)
				}
			},
		},
		{
			Name:  "index of",
			Loops: func(size int) int { return min(size, 5000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				indexOf(seq, env.Values[i%len(env.Values)])
			},
		},
		{
			Name:  "last index of",
			Loops: func(size int) int { return min(size, 5000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				lastIndexOf(seq, env.Values[i%len(env.Values)])
			},
		},
		{
			Name:  "set",
			Loops: func(size int) int { return size },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				if n := seq.Len(); 0 < n {
					seq.Set(i%n, env.MakeElem(i%29))
				}
			},
		},
		{
			Name:  "range read",
			Loops: func(size int) int { return size },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				n := seq.Len()
				for range rangeRead(seq, n/4, n/2) {
					// drain
				}
			},
		},
		{
			Name:  "delete at mid index",
			Loops: func(size int) int { return min(size, 10000) },
			Run: func(i int, seq Candidate[T], env TaskEnv[T]) {
				seq.Delete(seq.Len() / 2)
			},
		},
	}
}

// capability upgrades with iteration fallbacks

func contains[T comparable](seq Candidate[T], v T) bool {
	if c, ok := seq.(ds.Containable[T]); ok {
		return c.Contains(v)
	}
	for got := range seq.Values() {
		if got == v {
			return true
		}
	}
	return false
}

func containsAll[T comparable](seq Candidate[T], vs []T) bool {
	if c, ok := seq.(interface{ ContainsAll(vs ...T) bool }); ok {
		return c.ContainsAll(vs...)
	}
	for _, v := range vs {
		if !contains(seq, v) {
			return false
		}
	}
	return true
}

func removeValue[T comparable](seq Candidate[T], v T) bool {
	if r, ok := seq.(interface{ Remove(v T) bool }); ok {
		return r.Remove(v)
	}
	var (
		index = -1
		i     int
	)
	for got := range seq.Values() {
		if got == v {
			index = i
			break
		}
		i++
	}
	if index < 0 {
		return false
	}
	return seq.Delete(index)
}

func removeAll[T comparable](seq Candidate[T], vs []T) bool {
	if r, ok := seq.(interface{ RemoveAll(vs ...T) bool }); ok {
		return r.RemoveAll(vs...)
	}
	var changed bool
	for _, v := range vs {
		for removeValue(seq, v) {
			changed = true
		}
	}
	return changed
}

func retainAll[T comparable](seq Candidate[T], vs []T) bool {
	if r, ok := seq.(interface{ RetainAll(vs ...T) bool }); ok {
		return r.RetainAll(vs...)
	}
	arg := make(map[T]struct{}, len(vs))
	for _, v := range vs {
		arg[v] = struct{}{}
	}
	var (
		kept    []T
		changed bool
	)
	for v := range seq.Values() {
		if _, ok := arg[v]; ok {
			kept = append(kept, v)
		} else {
			changed = true
		}
	}
	if !changed {
		return false
	}
	seq.Clear()
	seq.Append(kept...)
	return true
}

func indexOf[T comparable](seq Candidate[T], v T) int {
	if s, ok := seq.(interface{ IndexOf(v T) int }); ok {
		return s.IndexOf(v)
	}
	var i int
	for got := range seq.Values() {
		if got == v {
			return i
		}
		i++
	}
	return -1
}

func lastIndexOf[T comparable](seq Candidate[T], v T) int {
	if s, ok := seq.(interface{ LastIndexOf(v T) int }); ok {
		return s.LastIndexOf(v)
	}
	var (
		i    int
		last = -1
	)
	for got := range seq.Values() {
		if got == v {
			last = i
		}
		i++
	}
	return last
}

func toSlice[T comparable](seq Candidate[T]) []T {
	if s, ok := seq.(ds.SliceConvertible[T]); ok {
		return s.ToSlice()
	}
	var vs []T
	for v := range seq.Values() {
		vs = append(vs, v)
	}
	return vs
}

func rangeRead[T comparable](seq Candidate[T], lo, hi int) iter.Seq[T] {
	if s, ok := seq.(interface{ Range(lo, hi int) iter.Seq[T] }); ok {
		return s.Range(lo, hi)
	}
	return func(yield func(T) bool) {
		var i int
		for v := range seq.Values() {
			if hi <= i {
				return
			}
			if lo <= i && !yield(v) {
				return
			}
			i++
		}
	}
}
