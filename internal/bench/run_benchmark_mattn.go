//go:build mattn && libsqlite3

package bench

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/nsqlite/sqlitebind/internal/log"
)

// With the libsqlite3 tag mattn/go-sqlite3 links the same system library
// as sqlitec instead of its own amalgamation, so both drivers run on one
// engine.
func init() {
	extraBenchmarks = append(extraBenchmarks, namedBenchmark{name: "mattn", run: runBenchmarkMattn})
}

// mattnDSN opens path with a private cache, mattn's driver has no unlock
// notification wait and would fail on shared-cache table locks.
func mattnDSN(path string) string {
	return fmt.Sprintf("file:%s?cache=private&_journal_mode=WAL&_busy_timeout=5000", path)
}

// runBenchmarkMattn runs the database/sql workload over mattn/go-sqlite3 as
// a baseline for the sqlitedrv scenario.
func runBenchmarkMattn(
	ctx context.Context, path string, conf benchmarksConfig, out io.Writer, _ log.Logger,
) (benchmarkResult, error) {
	db, err := sqlx.Open("sqlite3", mattnDSN(path))
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("error opening mattn/go-sqlite3 db: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(max(conf.readers, 1))

	if err := db.PingContext(ctx); err != nil {
		return benchmarkResult{}, fmt.Errorf("error opening mattn/go-sqlite3 db: %w", err)
	}

	return runDriverWorkload(ctx, db, "mattn/go-sqlite3", conf, out)
}
