package bench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nsqlite/sqlitebind/internal/config"
	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := sqlitec.Config(sqlitec.ConfigMultiThread); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func testBenchmarksConfig() benchmarksConfig {
	return newBenchmarksConfig(config.Config{
		Bench: &config.BenchCmd{
			Writers: 3,
			Readers: 2,
			Inserts: 40,
			Reads:   30,
		},
		Engine: config.DefaultEngine(),
	})
}

func countUsers(t *testing.T, path string) int64 {
	t.Helper()
	conn, err := sqlitec.Open(path)
	require.NoError(t, err)
	defer conn.Close()

	stmt, err := conn.Prepare("SELECT count(*) FROM users")
	require.NoError(t, err)
	_, err = stmt.Execute()
	require.NoError(t, err)
	values, err := stmt.Fetch()
	require.NoError(t, err)
	return values[0].(int64)
}

func TestBench(t *testing.T) {
	t.Run("Contention", func(t *testing.T) {
		conf := testBenchmarksConfig()
		path := filepath.Join(t.TempDir(), "contention.db")
		require.NoError(t, prepareDatabase(path, conf, log.Discard()))

		out := &bytes.Buffer{}
		res, err := runBenchmarkContention(context.Background(), path, conf, out, log.Discard())
		require.NoError(t, err)

		assert.Equal(t, "Contention", res.Name)
		assert.Equal(t, uint64(120), res.TotalWrites)
		assert.Equal(t, uint64(60), res.TotalReads)
		assert.GreaterOrEqual(t, res.UnlockWaits, int64(0))
		assert.Positive(t, res.MaxLatency)
		assert.Equal(t, int64(120), countUsers(t, path))
	})

	t.Run("ContentionCanceled", func(t *testing.T) {
		conf := testBenchmarksConfig()
		path := filepath.Join(t.TempDir(), "canceled.db")
		require.NoError(t, prepareDatabase(path, conf, log.Discard()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runBenchmarkContention(ctx, path, conf, &bytes.Buffer{}, log.Discard())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Driver", func(t *testing.T) {
		conf := testBenchmarksConfig()
		path := filepath.Join(t.TempDir(), "driver.db")
		require.NoError(t, prepareDatabase(path, conf, log.Discard()))

		res, err := runBenchmarkDriver(context.Background(), path, conf, &bytes.Buffer{}, log.Discard())
		require.NoError(t, err)

		assert.Equal(t, "Driver", res.Name)
		assert.Equal(t, uint64(120), res.TotalWrites)
		// Every query reads the last 100 users.
		assert.Equal(t, uint64(30*100), res.TotalReads)
		assert.Equal(t, int64(120), countUsers(t, path))
	})

	t.Run("RunBenchmarks", func(t *testing.T) {
		out := &bytes.Buffer{}
		results, err := runBenchmarks(
			context.Background(), t.TempDir(), testBenchmarksConfig(), out, log.Discard(),
		)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Contains(t, out.String(), "--- contention benchmark")
		assert.Contains(t, out.String(), "--- driver benchmark")

		rendered := renderResults(results)
		assert.Contains(t, rendered, "Contention")
		assert.Contains(t, rendered, "Driver")
		assert.Contains(t, rendered, "Unlock Waits")
	})
}

func TestRenderResults(t *testing.T) {
	rendered := renderResults([]benchmarkResult{{
		Name:        "Contention",
		Duration:    1500 * time.Millisecond,
		TotalReads:  12345,
		TotalWrites: 1000,
		UnlockWaits: 7,
		MaxLatency:  time.Millisecond,
	}})

	assert.Contains(t, rendered, "12,345")
	assert.Contains(t, rendered, "1,000")
	assert.Contains(t, rendered, "1.5s")
	assert.Contains(t, rendered, "1ms")
}
