package seqbench_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/combiseq"
	"go.llib.dev/combiseq/combiseqcontract"
	"go.llib.dev/combiseq/seqbench"
	"go.llib.dev/combiseq/treelist"
)

func ExampleBenchmark() {
	var reg seqbench.Registry[string]
	reg.Register("combined-sequence", func() seqbench.Candidate[string] {
		return combiseq.New[string]()
	})
	reg.Register("slice", func() seqbench.Candidate[string] {
		return &seqbench.SliceSequence[string]{}
	})

	bench := seqbench.Benchmark[string]{
		PopulateSize: 1000,
		MakeElem:     func(i int) string { return strconv.Itoa(i) },
	}

	report, err := bench.Run(context.Background(), &reg)
	if err != nil {
		panic(err)
	}
	_ = report.Results // task name -> implementation name -> result
}

func TestRegistry(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("names are sorted", func(t *testcase.T) {
		var reg seqbench.Registry[int]
		reg.Register("b", func() seqbench.Candidate[int] { return &seqbench.SliceSequence[int]{} })
		reg.Register("a", func() seqbench.Candidate[int] { return &seqbench.SliceSequence[int]{} })
		reg.Register("c", func() seqbench.Candidate[int] { return &seqbench.SliceSequence[int]{} })
		assert.Equal(t, []string{"a", "b", "c"}, reg.Names())
	})

	s.Test("duplicate registration is rejected", func(t *testcase.T) {
		var reg seqbench.Registry[int]
		factory := func() seqbench.Candidate[int] { return &seqbench.SliceSequence[int]{} }
		reg.Register("dup", factory)
		assert.Panic(t, func() { reg.Register("dup", factory) })
	})

	s.Test("registration requires a name and a factory", func(t *testcase.T) {
		var reg seqbench.Registry[int]
		assert.Panic(t, func() {
			reg.Register("", func() seqbench.Candidate[int] { return &seqbench.SliceSequence[int]{} })
		})
		assert.Panic(t, func() { reg.Register("nil-factory", nil) })
	})
}

func TestBenchmark_Run(t *testing.T) {
	s := testcase.NewSpec(t)

	registry := func() *seqbench.Registry[int] {
		var reg seqbench.Registry[int]
		reg.Register("combined-sequence", func() seqbench.Candidate[int] {
			return combiseq.New[int]()
		})
		reg.Register("slice", func() seqbench.Candidate[int] {
			return &seqbench.SliceSequence[int]{}
		})
		reg.Register("tree-list", func() seqbench.Candidate[int] {
			return treelist.From[int]()
		})
		return &reg
	}

	s.Test("every task gets a result for every registered implementation", func(t *testcase.T) {
		bench := seqbench.Benchmark[int]{
			PopulateSize: 100,
			MakeElem:     func(i int) int { return i },
		}
		reg := registry()

		report, err := bench.Run(context.Background(), reg)
		assert.NoError(t, err)

		assert.Equal(t, 100, report.PopulateSize)
		assert.NotEmpty(t, report.Results)
		for taskName, byImpl := range report.Results {
			for _, name := range reg.Names() {
				res, ok := byImpl[name]
				assert.True(t, ok, assert.MessageF("%s is missing a result for %s", name, taskName))
				assert.False(t, res.TimedOut)
				assert.True(t, 0 < res.Loops)
			}
		}
		for _, name := range reg.Names() {
			_, ok := report.Memory[name]
			assert.True(t, ok)
		}
	})

	s.Test("an element generator is required", func(t *testcase.T) {
		_, err := seqbench.Benchmark[int]{}.Run(context.Background(), registry())
		assert.ErrorIs(t, seqbench.ErrMissingMakeElem, err)
	})

	s.Test("a cancelled context stops the run", func(t *testcase.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		bench := seqbench.Benchmark[int]{
			PopulateSize: 10,
			MakeElem:     func(i int) int { return i },
		}
		_, err := bench.Run(ctx, registry())
		assert.ErrorIs(t, context.Canceled, err)
	})

	s.Test("a task over its deadline is recorded as timed out with the capped duration", func(t *testcase.T) {
		var reg seqbench.Registry[int]
		reg.Register("slice", func() seqbench.Candidate[int] {
			return &seqbench.SliceSequence[int]{}
		})
		bench := seqbench.Benchmark[int]{
			PopulateSize: 10,
			Timeout:      time.Millisecond,
			MakeElem:     func(i int) int { return i },
			Tasks: []seqbench.Task[int]{
				{
					Name:  "stall",
					Loops: func(size int) int { return 1 << 30 },
					Run: func(i int, seq seqbench.Candidate[int], env seqbench.TaskEnv[int]) {
						time.Sleep(time.Millisecond)
					},
				},
			},
		}

		report, err := bench.Run(context.Background(), &reg)
		assert.NoError(t, err)

		res := report.Results["stall"]["slice"]
		assert.True(t, res.TimedOut)
		assert.Equal(t, time.Millisecond, res.Duration)
		assert.True(t, res.Loops < 1<<30, "the loop must have been interrupted")
	})
}

func TestReport_export(t *testing.T) {
	s := testcase.NewSpec(t)

	sampleReport := func() seqbench.Report {
		return seqbench.Report{
			PopulateSize: 10,
			Timeout:      time.Second,
			Results: map[string]map[string]seqbench.TaskResult{
				"append": {
					"slice": {Duration: 42 * time.Microsecond, Loops: 10},
					"tree":  {Duration: 99 * time.Microsecond, Loops: 10, TimedOut: true},
				},
				"contains": {
					"slice": {Duration: 7 * time.Microsecond, Loops: 3},
					"tree":  {Duration: 5 * time.Microsecond, Loops: 3},
				},
			},
			Memory: map[string]int64{"slice": 1024, "tree": 4096},
		}
	}

	s.Test("JSON export round-trips", func(t *testcase.T) {
		var buf bytes.Buffer
		assert.NoError(t, sampleReport().WriteJSON(&buf))

		var got seqbench.Report
		assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sampleReport(), got)
	})

	s.Test("CSV export lists rows in sorted task then implementation order", func(t *testcase.T) {
		var buf bytes.Buffer
		assert.NoError(t, sampleReport().WriteCSV(&buf))

		records, err := csv.NewReader(&buf).ReadAll()
		assert.NoError(t, err)
		assert.Equal(t, []string{"task", "implementation", "duration_ns", "loops", "timed_out"}, records[0])
		assert.Equal(t, 5, len(records))
		assert.Equal(t, "append", records[1][0])
		assert.Equal(t, "slice", records[1][1])
		assert.Equal(t, "tree", records[2][1])
		assert.Equal(t, "contains", records[3][0])
		assert.Equal(t, "true", records[2][4])
		assert.Equal(t, "false", records[1][4])
	})
}

func TestSliceSequence(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Context("behaves as an ordered sequence", combiseqcontract.Sequence[int](
		func(tb testing.TB) *seqbench.SliceSequence[int] {
			return &seqbench.SliceSequence[int]{}
		},
		combiseqcontract.SequenceConfig[int]{
			MakeElem: func(tb testing.TB) int {
				return testcase.ToT(&tb).Random.Int()
			},
		},
	).Spec)
}
