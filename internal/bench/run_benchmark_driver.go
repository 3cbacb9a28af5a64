package bench

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nsqlite/sqlitebind/internal/bench/benchbar"
	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/sqlitedrv"
	"github.com/nsqlite/sqlitebind/internal/util/syncutil"
)

func init() {
	sqlx.BindDriver(sqlitedrv.DriverName, sqlx.QUESTION)
}

type user struct {
	ID      int64  `db:"id"`
	Created int64  `db:"created"`
	Email   string `db:"email"`
	Active  bool   `db:"active"`
}

// openDriverDB returns a database/sql pool of sqlitedrv connections to path.
func openDriverDB(path string, conf benchmarksConfig, logger log.Logger) *sqlx.DB {
	connector := sqlitedrv.NewConnector(
		path,
		sqlitedrv.WithLogger(logger),
		sqlitedrv.WithPostConnectQueries(conf.postOpen),
	)
	db := sqlx.NewDb(sql.OpenDB(connector), sqlitedrv.DriverName)
	db.SetMaxOpenConns(max(conf.readers, 1))
	return db
}

// runBenchmarkDriver runs the database/sql workload over sqlitedrv.
func runBenchmarkDriver(
	ctx context.Context, path string, conf benchmarksConfig, out io.Writer, logger log.Logger,
) (benchmarkResult, error) {
	db := openDriverDB(path, conf, logger)
	defer db.Close()

	return runDriverWorkload(ctx, db, "Driver", conf, out)
}

// runDriverWorkload inserts all the rows in a single transaction through
// database/sql and then queries them from concurrent goroutines. This
// simulates a read-heavy workload.
func runDriverWorkload(
	ctx context.Context, db *sqlx.DB, name string, conf benchmarksConfig, out io.Writer,
) (benchmarkResult, error) {
	start := time.Now()
	var totalReads, totalWrites atomic.Uint64
	maxLatency := &syncutil.MaxDuration{}

	inserts := conf.writers * conf.inserts
	bar := benchbar.NewBar(out, fmt.Sprintf("Inserting %d users in a transaction", inserts), inserts)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return benchmarkResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	for range inserts {
		opStart := time.Now()
		res, err := tx.NamedExecContext(ctx,
			"INSERT INTO users (created, email, active) VALUES (:created, :email, :active)",
			user{
				Created: time.Now().Unix(),
				Email:   fmt.Sprintf("user-%s@example.com", uuid.NewString()),
				Active:  true,
			},
		)
		if err != nil {
			return benchmarkResult{}, err
		}
		syncutil.StoreMax(maxLatency, time.Since(opStart))

		affected, err := res.RowsAffected()
		if err != nil {
			return benchmarkResult{}, err
		}
		totalWrites.Add(uint64(affected))
		bar.Inc()
	}

	if err := tx.Commit(); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	wgQuery := sync.WaitGroup{}
	chQuery := make(chan bool, max(conf.readers, 1))
	errQuery := make(chan error, conf.reads)
	bar = benchbar.NewBar(out, fmt.Sprintf("Querying the last users %d times", conf.reads), conf.reads)

	for range conf.reads {
		wgQuery.Add(1)
		chQuery <- true
		go func() {
			defer func() {
				wgQuery.Done()
				<-chQuery
			}()

			opStart := time.Now()
			users := []user{}
			err := db.SelectContext(ctx, &users,
				"SELECT id, created, email, active FROM users WHERE active = ? ORDER BY id DESC LIMIT 100",
				true,
			)
			if err != nil {
				errQuery <- err
				return
			}
			syncutil.StoreMax(maxLatency, time.Since(opStart))

			totalReads.Add(uint64(len(users)))
			bar.Inc()
		}()
	}

	wgQuery.Wait()
	close(chQuery)
	close(errQuery)

	for e := range errQuery {
		if e != nil {
			return benchmarkResult{}, e
		}
	}
	bar.Finish()

	return benchmarkResult{
		Name:        name,
		Duration:    time.Since(start),
		TotalReads:  totalReads.Load(),
		TotalWrites: totalWrites.Load(),
		MaxLatency:  maxLatency.Load(),
	}, nil
}
