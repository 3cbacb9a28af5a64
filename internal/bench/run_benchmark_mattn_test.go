//go:build mattn && libsqlite3

package bench

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchMattn(t *testing.T) {
	t.Run("Registered", func(t *testing.T) {
		names := []string{}
		for _, scenario := range extraBenchmarks {
			names = append(names, scenario.name)
		}
		assert.Contains(t, names, "mattn")
	})

	t.Run("SameWorkloadAsDriver", func(t *testing.T) {
		conf := testBenchmarksConfig()
		path := filepath.Join(t.TempDir(), "mattn.db")
		require.NoError(t, prepareDatabase(path, conf, log.Discard()))

		res, err := runBenchmarkMattn(context.Background(), path, conf, &bytes.Buffer{}, log.Discard())
		require.NoError(t, err)

		assert.Equal(t, "mattn/go-sqlite3", res.Name)
		assert.Equal(t, uint64(120), res.TotalWrites)
		assert.Equal(t, uint64(30*100), res.TotalReads)
		assert.Equal(t, int64(120), countUsers(t, path))
	})
}
