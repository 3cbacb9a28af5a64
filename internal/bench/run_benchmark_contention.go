package bench

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlitebind/internal/bench/benchbar"
	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
	"github.com/nsqlite/sqlitebind/internal/util/syncutil"
)

// runBenchmarkContention runs writers and readers at the same time, each
// on its own connection to the shared cache of the database at path. Every
// statement that hits a table lock held by another connection waits for
// the unlock notification and retries.
func runBenchmarkContention(
	ctx context.Context, path string, conf benchmarksConfig, out io.Writer, logger log.Logger,
) (benchmarkResult, error) {
	start := time.Now()
	var totalReads, totalWrites atomic.Uint64
	var unlockWaits atomic.Int64
	maxLatency := &syncutil.MaxDuration{}
	lastWrite := syncutil.NewAtomicTime(start)

	total := conf.writers*conf.inserts + conf.readers*conf.reads
	bar := benchbar.NewBar(out, fmt.Sprintf(
		"%d writers and %d readers on the shared cache", conf.writers, conf.readers,
	), total)

	wg := sync.WaitGroup{}
	errs := make(chan error, conf.writers+conf.readers)

	worker := func(query string, iterations int, run func(stmt *sqlitec.Stmt) error) {
		defer wg.Done()

		conn, err := sqlitec.Open(path, sqlitec.WithLogger(logger), sqlitec.WithPostOpenQueries(nil))
		if err != nil {
			errs <- err
			return
		}
		defer conn.Close()

		stmt, err := conn.Prepare(query)
		if err != nil {
			errs <- err
			return
		}
		defer func() {
			unlockWaits.Add(stmt.Counters()["nb_unlock_wait"])
			_ = stmt.Close()
		}()

		for range iterations {
			if err := ctx.Err(); err != nil {
				errs <- err
				return
			}

			opStart := time.Now()
			err := run(stmt)
			syncutil.StoreMax(maxLatency, time.Since(opStart))
			if resetErr := stmt.Reset(); err == nil {
				err = resetErr
			}
			if err != nil {
				errs <- err
				return
			}
			bar.Inc()
		}
	}

	for range conf.writers {
		wg.Add(1)
		go worker(
			"INSERT INTO users (created, email, active) VALUES (?, ?, ?)",
			conf.inserts,
			func(stmt *sqlitec.Stmt) error {
				email := fmt.Sprintf("user-%s@example.com", uuid.NewString())
				if err := stmt.BindAll(time.Now().Unix(), email, 1); err != nil {
					return err
				}
				status, err := stmt.Execute()
				if err != nil {
					return err
				}
				if status != sqlitec.StatusDone {
					return fmt.Errorf("insert ended with status %s: %w", status, stmt.Err())
				}
				totalWrites.Add(uint64(stmt.RowsChanged()))
				syncutil.StoreLatest(lastWrite, time.Now())
				return nil
			},
		)
	}

	for range conf.readers {
		wg.Add(1)
		go worker(
			"SELECT count(*), max(id) FROM users WHERE active = 1",
			conf.reads,
			func(stmt *sqlitec.Stmt) error {
				status, err := stmt.Execute()
				if err != nil {
					return err
				}
				if status != sqlitec.StatusRow {
					return fmt.Errorf("read ended with status %s: %w", status, stmt.Err())
				}
				if _, err := stmt.Fetch(); err != nil {
					return err
				}
				totalReads.Add(1)
				return nil
			},
		)
	}

	wg.Wait()
	close(errs)

	for e := range errs {
		if e != nil {
			return benchmarkResult{}, e
		}
	}
	bar.Finish()

	logger.DebugNs(log.NsBench, "contention benchmark finished", log.KV{
		"writesSpanMs": lastWrite.Load().Sub(start).Milliseconds(),
		"unlockWaits":  unlockWaits.Load(),
	})

	return benchmarkResult{
		Name:        "Contention",
		Duration:    time.Since(start),
		TotalReads:  totalReads.Load(),
		TotalWrites: totalWrites.Load(),
		UnlockWaits: unlockWaits.Load(),
		MaxLatency:  maxLatency.Load(),
	}, nil
}
