package combiseq

import (
	"testing"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
)

func TestCombinedSequence_stalenessProtocol(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("a slice write leaves only the slice view fresh", func(t *testcase.T) {
		seq := New(1, 2, 3)
		assert.False(t, seq.arrStale)
		assert.True(t, seq.treeStale)
		assert.True(t, seq.setStale)
	})

	s.Test("a tree write leaves only the tree view fresh", func(t *testcase.T) {
		seq := New(1, 2, 3)
		seq.Insert(1, 42)
		assert.False(t, seq.treeStale)
		assert.True(t, seq.arrStale)
		assert.True(t, seq.setStale)
	})

	s.Test("clear leaves every representation fresh", func(t *testcase.T) {
		seq := New(1, 2, 3)
		seq.Insert(1, 42)
		seq.Clear()
		assert.False(t, seq.arrStale)
		assert.False(t, seq.treeStale)
		assert.False(t, seq.setStale)
	})

	s.Test("at least one ordered view is always fresh", func(t *testcase.T) {
		seq := New[int]()
		ops := []func(){
			func() { seq.Append(t.Random.Int()) },
			func() { seq.Insert(0, t.Random.Int()) },
			func() { seq.Delete(0) },
			func() { seq.Set(0, t.Random.Int()) },
			func() { seq.Contains(t.Random.Int()) },
			func() { seq.Remove(t.Random.Int()) },
			func() { seq.Lookup(0) },
		}
		t.Random.Repeat(100, 200, func() {
			ops[t.Random.IntBetween(0, len(ops)-1)]()
			assert.True(t, !seq.arrStale || !seq.treeStale,
				"the staleness protocol must always keep a rebuild source")
		})
	})

	s.Test("size and emptiness checks never trigger a rebuild", func(t *testcase.T) {
		seq := New(1, 2, 3)
		seq.Insert(1, 42) // the slice view is stale now
		rebuilds := seq.rebuilds

		assert.Equal(t, 4, seq.Len())
		assert.False(t, seq.IsEmpty())

		assert.Equal(t, rebuilds, seq.rebuilds)
		assert.True(t, seq.arrStale, "the slice view must remain stale")
	})

	s.Test("refresh is idempotent", func(t *testcase.T) {
		seq := New(1, 2, 3)

		rebuilds := seq.rebuilds
		assert.True(t, seq.Contains(2))
		assert.Equal(t, rebuilds+1, seq.rebuilds, "first membership read rebuilds the set")
		assert.True(t, seq.Contains(3))
		assert.Equal(t, rebuilds+1, seq.rebuilds, "further membership reads must not")

		seq.Insert(0, 0)
		rebuilds = seq.rebuilds
		_, ok := seq.Lookup(0)
		assert.True(t, ok)
		assert.Equal(t, rebuilds+1, seq.rebuilds, "first positional read rebuilds the slice view")
		_, ok = seq.Lookup(1)
		assert.True(t, ok)
		assert.Equal(t, rebuilds+1, seq.rebuilds, "further positional reads must not")
	})

	s.Test("reads on a fresh representation cost no synchronization", func(t *testcase.T) {
		seq := New(1, 2, 3)
		rebuilds := seq.rebuilds
		t.Random.Repeat(3, 7, func() {
			seq.Lookup(0)
			seq.IndexOf(2)
			seq.ToSlice()
		})
		assert.Equal(t, rebuilds, seq.rebuilds, "the slice view was fresh the whole time")
	})

	s.Test("a stale view rebuilt after a write equals the primary view content", func(t *testcase.T) {
		seq := New("a", "b", "c")
		seq.Insert(1, "x") // tree is primary now, slice and set are stale

		assert.Equal(t, []string{"a", "x", "b", "c"}, seq.ToSlice(), "slice view rebuilt from the tree")
		assert.True(t, seq.Contains("x"), "membership set rebuilt from a fresh view")

		seq.Set(0, "z") // slice is primary now, tree and set are stale
		assert.True(t, seq.Remove("z"), "tree view rebuilt from the slice")
		assert.Equal(t, []string{"x", "b", "c"}, seq.ToSlice())
	})

	s.Test("equality and rendering read the fresh view without a rebuild", func(t *testcase.T) {
		seq := New(1, 2)
		seq.Insert(2, 3)
		rebuilds := seq.rebuilds

		assert.True(t, seq.EqualSlice([]int{1, 2, 3}))
		assert.Equal(t, "[1 2 3]", seq.String())
		assert.Equal(t, rebuilds, seq.rebuilds)
	})
}
