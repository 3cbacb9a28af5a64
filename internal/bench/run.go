// Package bench implements the shared-cache contention benchmark of
// sqlitebind.
package bench

import (
	"context"
	"fmt"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitebind/internal/config"
	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
	"github.com/nsqlite/sqlitebind/internal/styled"
	"github.com/nsqlite/sqlitebind/internal/util/numutil"
	"github.com/nsqlite/sqlitebind/internal/version"
)

// benchmarkResult stores the outcome of a benchmark.
type benchmarkResult struct {
	Name        string
	Duration    time.Duration
	TotalReads  uint64
	TotalWrites uint64
	UnlockWaits int64
	MaxLatency  time.Duration
}

type benchmarkFunc func(
	ctx context.Context, path string, conf benchmarksConfig, out io.Writer, logger log.Logger,
) (benchmarkResult, error)

type namedBenchmark struct {
	name string
	run  benchmarkFunc
}

// extraBenchmarks holds the scenarios enabled by build tags.
var extraBenchmarks []namedBenchmark

// Run executes the benchmarks and prints the results.
func Run(ctx context.Context, conf config.Config, logger log.Logger) error {
	if !conf.Engine.MultiThread {
		return errors.New("the bench subcommand needs multithread mode, set multithread: true")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.CLIVersion())

	dir := conf.Bench.Directory
	if dir == "" {
		tmpDir, err := os.MkdirTemp("", "sqlitebind_bench_*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)
		dir = tmpDir
	}

	results, err := runBenchmarks(ctx, dir, newBenchmarksConfig(conf), os.Stdout, logger)
	if err != nil {
		return err
	}

	fmt.Println(renderResults(results))
	return nil
}

// runBenchmarks runs every benchmark on its own database in dir.
func runBenchmarks(
	ctx context.Context, dir string, conf benchmarksConfig, out io.Writer, logger log.Logger,
) ([]benchmarkResult, error) {
	benchs := []namedBenchmark{
		{name: "contention", run: runBenchmarkContention},
		{name: "driver", run: runBenchmarkDriver},
	}
	benchs = append(benchs, extraBenchmarks...)

	var results []benchmarkResult

	for _, bench := range benchs {
		path := filepath.Join(dir, bench.name+".db")
		fmt.Fprintf(out, "\n--- %s benchmark (%s) ---\n", bench.name, path)

		if err := prepareDatabase(path, conf, logger); err != nil {
			return nil, fmt.Errorf("error preparing %s benchmark: %w", bench.name, err)
		}

		res, err := bench.run(ctx, path, conf, out, logger)
		if err != nil {
			return nil, fmt.Errorf("error running %s benchmark: %w", bench.name, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// prepareDatabase creates the database at path with an empty schema and
// checkpoints it so every benchmark starts from an empty WAL.
func prepareDatabase(path string, conf benchmarksConfig, logger log.Logger) error {
	conn, err := sqlitec.Open(path, sqlitec.WithLogger(logger), sqlitec.WithPostOpenQueries(conf.postOpen))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := recreateSchema(conn); err != nil {
		return err
	}
	_, err = conn.WALCheckpoint("")
	return err
}

func renderResults(results []benchmarkResult) string {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Name", "Reads", "Writes", "Unlock Waits", "Max Latency", "Duration"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Name,
			numutil.IntWithCommas(r.TotalReads),
			numutil.IntWithCommas(r.TotalWrites),
			numutil.IntWithCommas(r.UnlockWaits),
			r.MaxLatency.Round(time.Microsecond),
			r.Duration.Round(time.Millisecond),
		})
	}

	return tw.Render()
}
