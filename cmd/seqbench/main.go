// Command seqbench compares sequence implementations and exports the
// measurements as JSON or CSV.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/testcase/random"

	"go.llib.dev/combiseq"
	"go.llib.dev/combiseq/seqbench"
	"go.llib.dev/combiseq/treelist"
)

func main() {
	cli.Main(context.Background(), BenchCommand{})
}

type BenchCommand struct {
	Timeout  time.Duration `flag:"timeout" default:"15s" desc:"per-task time cap"`
	Size     int           `flag:"size" default:"1000" desc:"number of elements each candidate is populated with"`
	Format   string        `flag:"format" enum:"json,csv," default:"json" desc:"report output format"`
	Out      string        `flag:"out" desc:"report output path, stdout when empty"`
	LogLevel string        `flag:"log-level" enum:"debug,info,warn," default:"info" desc:"logging verbosity"`
}

func (cmd BenchCommand) ServeCLI(w cli.Response, r *cli.Request) {
	ctx := r.Context()
	logger.Configure(func(l *logging.Logger) {
		l.Level = logging.Level(cmd.LogLevel)
	})

	var reg seqbench.Registry[string]
	reg.Register("combined-sequence", func() seqbench.Candidate[string] {
		return combiseq.New[string]()
	})
	reg.Register("slice", func() seqbench.Candidate[string] {
		return &seqbench.SliceSequence[string]{}
	})
	reg.Register("tree-list", func() seqbench.Candidate[string] {
		return treelist.From[string]()
	})

	rnd := random.New(random.CryptoSeed{})
	words := make([]string, 30)
	for i := range words {
		words[i] = rnd.StringNC(8, random.CharsetAlpha())
	}

	bench := seqbench.Benchmark[string]{
		Timeout:      cmd.Timeout,
		PopulateSize: cmd.Size,
		MakeElem: func(i int) string {
			return words[i%len(words)]
		},
	}

	report, err := bench.Run(ctx, &reg)
	if err != nil {
		cli.Error(w, err.Error(), cli.ExitCodeError)
		return
	}

	out, closeOut, err := cmd.output(w)
	if err != nil {
		cli.Error(w, err.Error(), cli.ExitCodeError)
		return
	}
	defer closeOut()

	switch cmd.Format {
	case "csv":
		err = report.WriteCSV(out)
	default:
		err = report.WriteJSON(out)
	}
	if err != nil {
		cli.Error(w, err.Error(), cli.ExitCodeError)
		return
	}
	logger.Info(ctx, "benchmark report written",
		logging.Field("format", cmd.Format),
		logging.Field("out", cmd.outName()))
}

func (cmd BenchCommand) output(w cli.Response) (io.Writer, func() error, error) {
	if cmd.Out == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(cmd.Out)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func (cmd BenchCommand) outName() string {
	if cmd.Out == "" {
		return "stdout"
	}
	return cmd.Out
}
