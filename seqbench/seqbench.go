// Package seqbench measures sequence implementations against each other.
//
// Implementations register under a name with a constructor function, and the
// benchmark drives each of them through the same task list: populate, then
// run a tight loop of one operation with a per-task deadline. A task that
// hits its deadline is recorded with the capped duration and its instance is
// discarded; an interrupted instance is never reused.
//
// Tasks rely only on the ds.Sequence capability set. Richer operations
// (contains, removeAll, index lookups, range reads) are discovered through
// interface upgrades and fall back to iteration when the candidate does not
// provide them.
package seqbench

import (
	"context"
	"sort"
	"time"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/frameless/pkg/mapkit"
	"go.llib.dev/frameless/pkg/zerokit"
	"go.llib.dev/frameless/port/ds"
	"go.llib.dev/testcase/clock"
)

// ErrMissingMakeElem is returned by Benchmark.Run when no element generator
// was configured.
const ErrMissingMakeElem errorkit.Error = "seqbench: Benchmark.MakeElem is required"

// Candidate is the capability set a benchmarked sequence must provide.
type Candidate[T any] interface {
	ds.Sequence[T]
	ds.Len
	Clear()
}

// Factory constructs an empty Candidate instance.
type Factory[T any] func() Candidate[T]

// Registry holds named sequence constructors.
// It replaces runtime reflection: an implementation takes part in the
// benchmark by registering a constructor under a display name.
type Registry[T any] struct {
	factories map[string]Factory[T]
}

func (r *Registry[T]) Register(name string, factory Factory[T]) {
	if name == "" {
		panic("seqbench: registration requires a non-empty name")
	}
	if factory == nil {
		panic("seqbench: registration requires a factory function")
	}
	if _, ok := r.factories[name]; ok {
		panic("seqbench: " + name + " is already registered")
	}
	if r.factories == nil {
		r.factories = make(map[string]Factory[T])
	}
	r.factories[name] = factory
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	return mapkit.Keys(r.factories, sort.Strings)
}

// Benchmark runs every registered candidate through the task list.
type Benchmark[T comparable] struct {
	// Timeout caps the duration of a single task run. Default: 15s.
	Timeout time.Duration
	// PopulateSize is the number of elements a candidate is populated with
	// before each task. Default: 1000.
	PopulateSize int
	// MakeElem generates the element for a given ordinal. Required.
	MakeElem func(i int) T
	// Tasks overrides the task list. Default: DefaultTasks.
	Tasks []Task[T]
}

// TaskEnv carries the shared inputs of a task run.
type TaskEnv[T any] struct {
	// Size is the populate size of the benchmark.
	Size int
	// Values is the default content each candidate is populated with.
	Values []T
	// Bulk is the batch used by bulk and membership tasks.
	Bulk []T
	// MakeElem generates further elements.
	MakeElem func(i int) T
}

// Task is one measured operation loop.
type Task[T comparable] struct {
	Name string
	// Loops returns how many times Run is repeated for a given populate size.
	Loops func(size int) int
	// Run executes the i-th iteration of the operation under measurement.
	Run func(i int, seq Candidate[T], env TaskEnv[T])
}

func (b Benchmark[T]) Run(ctx context.Context, reg *Registry[T]) (Report, error) {
	if b.MakeElem == nil {
		return Report{}, ErrMissingMakeElem
	}
	var (
		size  = b.getPopulateSize()
		tasks = b.getTasks()
		env   = TaskEnv[T]{Size: size, MakeElem: b.MakeElem}
	)
	env.Values = make([]T, size)
	for i := range env.Values {
		env.Values[i] = b.MakeElem(i)
	}
	env.Bulk = make([]T, bulkSize)
	for i := range env.Bulk {
		env.Bulk[i] = b.MakeElem(i % 30)
	}
	report := Report{
		PopulateSize: size,
		Timeout:      b.getTimeout(),
		Results:      map[string]map[string]TaskResult{},
	}
	for _, name := range reg.Names() {
		factory := reg.factories[name]
		logger.Info(ctx, "benchmarking sequence implementation",
			logging.Field("implementation", name),
			logging.Field("populate-size", size))
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			result := b.execute(ctx, task, factory, env)
			if report.Results[task.Name] == nil {
				report.Results[task.Name] = map[string]TaskResult{}
			}
			report.Results[task.Name][name] = result
			logger.Debug(ctx, "task finished",
				logging.Field("implementation", name),
				logging.Field("task", task.Name),
				logging.Field("duration", result.Duration.String()),
				logging.Field("timed-out", result.TimedOut))
		}
	}
	report.Memory = b.measureMemory(reg, env)
	return report, nil
}

const bulkSize = 1000

func (b Benchmark[T]) execute(ctx context.Context, task Task[T], factory Factory[T], env TaskEnv[T]) TaskResult {
	// each task run gets a fresh instance,
	// so a deadline-interrupted one is never reused
	seq := factory()
	seq.Append(env.Values...)
	var (
		loops    = task.Loops(env.Size)
		timedOut bool
		i        int
	)
	taskCtx, cancel := context.WithTimeout(ctx, b.getTimeout())
	defer cancel()
	startedAt := clock.Now()
	for ; i < loops; i++ {
		if taskCtx.Err() != nil {
			timedOut = true
			break
		}
		task.Run(i, seq, env)
	}
	duration := clock.Now().Sub(startedAt)
	if timedOut {
		duration = b.getTimeout()
	}
	return TaskResult{Duration: duration, Loops: i, TimedOut: timedOut}
}

// measureMemory estimates the retained heap bytes of one populated instance
// per candidate by allocating a batch of them between two heap readings.
func (b Benchmark[T]) measureMemory(reg *Registry[T], env TaskEnv[T]) map[string]int64 {
	out := map[string]int64{}
	for _, name := range reg.Names() {
		out[name] = measureRetained(reg.factories[name], env.Values)
	}
	return out
}

func (b Benchmark[T]) getTimeout() time.Duration {
	return zerokit.Coalesce(b.Timeout, 15*time.Second)
}

func (b Benchmark[T]) getPopulateSize() int {
	return zerokit.Coalesce(b.PopulateSize, 1000)
}

func (b Benchmark[T]) getTasks() []Task[T] {
	if len(b.Tasks) != 0 {
		return b.Tasks
	}
	return DefaultTasks[T]()
}
