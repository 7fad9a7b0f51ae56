// Package combiseqcontract defines the behavioral contract of an ordered
// collection with duplicates. Implementations are driven in lockstep with a
// plain slice model: after every mutation the observable content must equal
// what the same operations produce on the model.
package combiseqcontract

import (
	"fmt"
	"testing"

	"go.llib.dev/frameless/pkg/iterkit"
	"go.llib.dev/frameless/pkg/reflectkit"
	"go.llib.dev/frameless/pkg/zerokit"
	"go.llib.dev/frameless/port/contract"
	"go.llib.dev/frameless/port/ds"
	"go.llib.dev/frameless/port/option"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"
)

func Sequence[T comparable, Subject ds.Sequence[T]](mk func(tb testing.TB) Subject, opts ...SequenceOption[T]) contract.Contract {
	s := testcase.NewSpec(nil)
	c := option.ToConfig(opts)

	s.Test("smoke", func(t *testcase.T) {
		var (
			seq      = mk(t)
			expected = random.Slice(t.Random.IntBetween(3, 7), func() T { return c.makeElem(t) })
		)
		seq.Append(expected...)
		assertSameContent(t, expected, iterkit.Collect(seq.Values()))

		v, ok := seq.Lookup(0)
		assert.True(t, ok)
		assert.Equal(t, expected[0], v)

		_, ok = seq.Lookup(len(expected))
		assert.False(t, ok)
		_, ok = seq.Lookup(-1)
		assert.False(t, ok)
	})

	s.Test("duplicates are preserved in order", func(t *testcase.T) {
		var (
			seq = mk(t)
			v   = c.makeElem(t)
		)
		seq.Append(v, v, v)
		assertSameContent(t, []T{v, v, v}, iterkit.Collect(seq.Values()))
	})

	s.Test("insert at the end appends", func(t *testcase.T) {
		var (
			seq  = mk(t)
			base = random.Slice(t.Random.IntBetween(1, 5), func() T { return c.makeElem(t) })
			v    = c.makeElem(t)
		)
		seq.Append(base...)
		assert.True(t, seq.Insert(len(base), v))
		assertSameContent(t, append(append([]T{}, base...), v), iterkit.Collect(seq.Values()))
	})

	s.Test("positional operations report out-of-range, they never clamp", func(t *testcase.T) {
		var (
			seq = mk(t)
			v   = c.makeElem(t)
		)
		seq.Append(v)
		assert.False(t, seq.Set(1, v))
		assert.False(t, seq.Set(-1, v))
		assert.False(t, seq.Insert(2, v))
		assert.False(t, seq.Insert(-1, v))
		assert.False(t, seq.Delete(1))
		assert.False(t, seq.Delete(-1))
		assertSameContent(t, []T{v}, iterkit.Collect(seq.Values()))
	})

	s.Test("random operation sequences behave like a plain ordered collection", func(t *testcase.T) {
		var (
			seq   = mk(t)
			model []T
		)
		t.Random.Repeat(50, 150, func() {
			switch t.Random.IntBetween(0, 4) {
			case 0:
				v := c.makeElem(t)
				seq.Append(v)
				model = append(model, v)
			case 1:
				i := t.Random.IntBetween(0, len(model))
				v := c.makeElem(t)
				assert.True(t, seq.Insert(i, v))
				model = append(model[:i:i], append([]T{v}, model[i:]...)...)
			case 2:
				if len(model) == 0 {
					break
				}
				i := t.Random.IntBetween(0, len(model)-1)
				v := c.makeElem(t)
				assert.True(t, seq.Set(i, v))
				model[i] = v
			case 3:
				if len(model) == 0 {
					break
				}
				i := t.Random.IntBetween(0, len(model)-1)
				assert.True(t, seq.Delete(i))
				model = append(model[:i:i], model[i+1:]...)
			case 4:
				if len(model) == 0 {
					break
				}
				i := t.Random.IntBetween(0, len(model)-1)
				v, ok := seq.Lookup(i)
				assert.True(t, ok)
				assert.Equal(t, model[i], v)
			}
			assertSameContent(t, model, iterkit.Collect(seq.Values()))
			if l, ok := any(seq).(ds.Len); ok {
				assert.Equal(t, len(model), l.Len())
			}
		})
	})

	s.Test("ToSlice equals the iteration order", func(t *testcase.T) {
		seq := mk(t)
		cts, ok := any(seq).(ds.SliceConvertible[T])
		if !ok {
			t.Skip()
		}
		vs := random.Slice(t.Random.IntBetween(3, 7), func() T { return c.makeElem(t) })
		seq.Append(vs...)
		assertSameContent(t, iterkit.Collect(seq.Values()), cts.ToSlice())
	})

	return s.AsSuite(fmt.Sprintf("Sequence[%s]", reflectkit.TypeOf[T]().String()))
}

func assertSameContent[T comparable](t *testcase.T, exp, got []T) {
	assert.Equal(t, len(exp), len(got), "content length mismatch")
	for i := range exp {
		assert.Equal(t, exp[i], got[i], assert.MessageF("content mismatch at index %d", i))
	}
}

type SequenceOption[T comparable] interface {
	option.Option[SequenceConfig[T]]
}

type SequenceConfig[T comparable] struct {
	// MakeElem creates the element values the contract populates the subject with.
	MakeElem func(testing.TB) T
}

var _ SequenceOption[int] = SequenceConfig[int]{}

func (c SequenceConfig[T]) Configure(o *SequenceConfig[T]) {
	o.MakeElem = zerokit.Coalesce(c.MakeElem, o.MakeElem)
}

func (c SequenceConfig[T]) makeElem(tb testing.TB) T {
	if c.MakeElem == nil {
		panic("combiseqcontract: SequenceConfig.MakeElem is required")
	}
	return c.MakeElem(tb)
}
