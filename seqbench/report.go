package seqbench

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"runtime"
	"sort"
	"strconv"
	"time"

	"go.llib.dev/frameless/pkg/mapkit"
)

// Report is the exportable outcome of a benchmark run:
// task name → implementation name → measured result,
// plus a retained-memory estimate per implementation.
type Report struct {
	PopulateSize int                              `json:"populate_size"`
	Timeout      time.Duration                    `json:"timeout_ns"`
	Results      map[string]map[string]TaskResult `json:"results"`
	Memory       map[string]int64                 `json:"memory_bytes"`
}

type TaskResult struct {
	Duration time.Duration `json:"duration_ns"`
	Loops    int           `json:"loops"`
	TimedOut bool          `json:"timed_out"`
}

func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV renders the results as one row per task × implementation,
// ordered by task then implementation name.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task", "implementation", "duration_ns", "loops", "timed_out"}); err != nil {
		return err
	}
	for _, task := range mapkit.Keys(r.Results, sort.Strings) {
		byImpl := r.Results[task]
		for _, impl := range mapkit.Keys(byImpl, sort.Strings) {
			res := byImpl[impl]
			record := []string{
				task,
				impl,
				strconv.FormatInt(res.Duration.Nanoseconds(), 10),
				strconv.Itoa(res.Loops),
				strconv.FormatBool(res.TimedOut),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// measureRetained estimates the heap bytes retained by one populated
// instance. A batch is allocated between two heap readings to average out
// allocator noise; the result is a rough estimate, not an accounting.
func measureRetained[T any](factory Factory[T], values []T) int64 {
	const batch = 20
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	instances := make([]Candidate[T], 0, batch)
	for range batch {
		seq := factory()
		seq.Append(values...)
		instances = append(instances, seq)
	}
	runtime.ReadMemStats(&after)
	runtime.KeepAlive(instances)
	if after.HeapAlloc < before.HeapAlloc {
		return 0
	}
	return int64((after.HeapAlloc - before.HeapAlloc) / batch)
}
