package sqlitec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepareTestStmt(t *testing.T, conn *Conn, query string) *Stmt {
	t.Helper()
	stmt, err := conn.Prepare(query)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stmt.Close() })
	return stmt
}

func TestStmt(t *testing.T) {
	t.Run("Metadata", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT)"))

		sel := prepareTestStmt(t, conn, "SELECT id, val AS value FROM test WHERE id > ?")
		assert.True(t, sel.ReadOnly())
		assert.Equal(t, 1, sel.NumBinds())
		assert.Equal(t, 2, sel.ColumnCount())
		assert.Equal(t, []string{"id", "value"}, sel.ColumnNames())
		assert.Equal(t, "SELECT id, val AS value FROM test WHERE id > ?", sel.SQL())
		assert.Equal(t, StatusNone, sel.Status())

		ins := prepareTestStmt(t, conn, "INSERT INTO test (id, val) VALUES (?, ?)")
		assert.False(t, ins.ReadOnly())
		assert.Equal(t, 2, ins.NumBinds())
		assert.Equal(t, 0, ins.ColumnCount())
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		conn := openTestConn(t)
		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)

		assert.NoError(t, stmt.Close())
		assert.NoError(t, stmt.Close())
		assert.True(t, stmt.IsClosed())
		assert.Equal(t, "", stmt.SQL())
	})

	t.Run("ClosedAccessorsAreEmpty", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY)"))

		stmt, err := conn.Prepare("INSERT INTO test (id) VALUES (?)")
		require.NoError(t, err)
		require.NoError(t, stmt.Bind(1, 1))
		status, err := stmt.Execute()
		require.NoError(t, err)
		require.Equal(t, StatusDone, status)
		require.Equal(t, int64(1), stmt.RowsChanged())

		require.NoError(t, stmt.Close())

		assert.Equal(t, 0, stmt.NumBinds())
		assert.Equal(t, 0, stmt.ColumnCount())
		assert.Equal(t, int64(0), stmt.RowsChanged())
		rowID, ok := stmt.LastInsertRowID()
		assert.Equal(t, int64(0), rowID)
		assert.False(t, ok)
		assert.False(t, stmt.ReadOnly())
		assert.Equal(t, StatusNone, stmt.Status())
	})

	t.Run("BindBounds", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT ?, ?")

		for _, index := range []int{-1, 0, 3, 100} {
			assert.ErrorIs(t, stmt.Bind(index, 1), ErrBindRange, "index %d", index)
		}
		for _, index := range []int{1, 2} {
			assert.NoError(t, stmt.Bind(index, 1), "index %d", index)
		}
	})

	t.Run("BindTypes", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT ?")

		supported := []any{
			int(1), int8(-2), int16(3), int32(-4), int64(math.MaxInt64),
			uint(5), uint8(6), uint16(7), uint32(math.MaxUint32), uint64(math.MaxInt64),
			float32(1.5), float64(-2.25), "text", "",
		}
		for _, value := range supported {
			assert.NoError(t, stmt.Bind(1, value), "value %T", value)
		}

		unsupported := []any{nil, true, []byte("raw"), struct{}{}, map[string]int{}}
		for _, value := range unsupported {
			err := stmt.Bind(1, value)
			assert.ErrorIs(t, err, ErrUnsupportedType, "value %T", value)
			assert.False(t, IsContractError(err))
		}

		err := stmt.Bind(1, true)
		assert.ErrorContains(t, err, "bool")

		err = stmt.Bind(1, uint64(math.MaxUint64))
		assert.ErrorContains(t, err, "overflows")
	})

	t.Run("BindAllArity", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT ?1, ?2")

		require.NoError(t, stmt.Bind(1, 7))
		assert.ErrorIs(t, stmt.BindAll(1), ErrBindArity)
		assert.ErrorIs(t, stmt.BindAll(1, 2, 3), ErrBindArity)

		// A failed BindAll binds nothing.
		status, err := stmt.Execute()
		require.NoError(t, err)
		require.Equal(t, StatusRow, status)
		values, err := stmt.Fetch()
		require.NoError(t, err)
		assert.Equal(t, []any{int64(7), nil}, values)
	})

	t.Run("BindAllStopsOnFirstError", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT ?1, ?2, ?3")

		err := stmt.BindAll(1, true, 3)
		assert.ErrorIs(t, err, ErrUnsupportedType)
		assert.ErrorContains(t, err, "parameter 2")

		_, err = stmt.Execute()
		require.NoError(t, err)
		values, err := stmt.Fetch()
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), nil, nil}, values)
	})

	t.Run("ExecuteFetchLookAhead", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec(`
			CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT);
			INSERT INTO test (id, val) VALUES (1, 'a'), (2, 'b'), (3, 'c');
		`))

		stmt := prepareTestStmt(t, conn, "SELECT id, val FROM test ORDER BY id")

		status, err := stmt.Execute()
		require.NoError(t, err)
		assert.Equal(t, StatusRow, status)
		signal, ok := status.Signal()
		assert.True(t, ok)
		assert.Equal(t, 1, signal)

		var rows [][]any
		for {
			values, err := stmt.Fetch()
			require.NoError(t, err)
			if values == nil {
				break
			}
			rows = append(rows, values)
			if len(rows) < 3 {
				assert.Equal(t, StatusRow, stmt.Status())
			}
		}

		assert.Equal(t, [][]any{
			{int64(1), "a"},
			{int64(2), "b"},
			{int64(3), "c"},
		}, rows)
		assert.Equal(t, StatusDone, stmt.Status())
		assert.NoError(t, stmt.Err())

		values, err := stmt.Fetch()
		assert.NoError(t, err)
		assert.Nil(t, values)
	})

	t.Run("ExecuteEmptyResult", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY)"))
		stmt := prepareTestStmt(t, conn, "SELECT id FROM test")

		status, err := stmt.Execute()
		require.NoError(t, err)
		assert.Equal(t, StatusDone, status)
		signal, ok := status.Signal()
		assert.True(t, ok)
		assert.Equal(t, 0, signal)

		row, err := stmt.FetchAssoc()
		assert.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("FetchShapes", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT 1 AS one, 'two' AS two")

		execute := func() {
			require.NoError(t, stmt.Reset())
			status, err := stmt.Execute()
			require.NoError(t, err)
			require.Equal(t, StatusRow, status)
		}

		execute()
		row, err := stmt.FetchRow()
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), "two"}, row.Values)
		assert.Nil(t, row.Named)
		assert.Equal(t, "two", row.Index(2))
		assert.Nil(t, row.Index(0))
		assert.Nil(t, row.Index(3))

		execute()
		row, err = stmt.FetchAssoc()
		require.NoError(t, err)
		assert.Empty(t, row.Values)
		assert.Equal(t, map[string]any{"one": int64(1), "two": "two"}, row.Named)
		assert.Equal(t, int64(1), row.Get("one"))
		assert.Nil(t, row.Get("three"))

		execute()
		row, err = stmt.FetchArray()
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), "two"}, row.Values)
		assert.Equal(t, map[string]any{"one": int64(1), "two": "two"}, row.Named)
	})

	t.Run("FetchInto", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT 1 AS one UNION ALL SELECT 2")

		_, err := stmt.Execute()
		require.NoError(t, err)

		dst := &Row{
			Values: []any{"stale", "stale"},
			Named:  map[string]any{"extra": true},
		}
		ok, err := stmt.FetchInto(dst, FetchArray)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []any{int64(1)}, dst.Values)
		assert.Equal(t, map[string]any{"one": int64(1), "extra": true}, dst.Named)

		ok, err = stmt.FetchInto(dst, FetchArray)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(2), dst.Get("one"))

		ok, err = stmt.FetchInto(dst, FetchArray)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ColumnTypes", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT 42, 3.5, 'txt', NULL, x'00ff'")

		_, err := stmt.Execute()
		require.NoError(t, err)
		values, err := stmt.Fetch()
		require.NoError(t, err)
		assert.Equal(t, []any{int64(42), 3.5, "txt", nil, nil}, values)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec(
			"CREATE TABLE test (id INTEGER PRIMARY KEY, num_int INTEGER, num_float REAL, txt TEXT)",
		))

		ins := prepareTestStmt(t, conn, "INSERT INTO test (num_int, num_float, txt) VALUES (?, ?, ?)")
		text := "héllo\x00wörld"
		require.NoError(t, ins.BindAll(int64(-9007199254740993), 0.125, text))
		status, err := ins.Execute()
		require.NoError(t, err)
		require.Equal(t, StatusDone, status)

		sel := prepareTestStmt(t, conn, "SELECT num_int, num_float, txt FROM test")
		_, err = sel.Execute()
		require.NoError(t, err)
		row, err := sel.FetchAssoc()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"num_int":   int64(-9007199254740993),
			"num_float": 0.125,
			"txt":       text,
		}, row.Named)
		assert.Len(t, row.Named["txt"], len(text))
	})

	t.Run("LastInsertDisambiguation", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT UNIQUE)"))

		stmt := prepareTestStmt(t, conn, "INSERT OR IGNORE INTO test (id, name) VALUES (?, ?)")

		require.NoError(t, stmt.BindAll(0, "zero"))
		status, err := stmt.Execute()
		require.NoError(t, err)
		assert.Equal(t, StatusDone, status)
		assert.Equal(t, int64(1), stmt.RowsChanged())
		rowID, ok := stmt.LastInsertRowID()
		assert.True(t, ok)
		assert.Equal(t, int64(0), rowID)

		require.NoError(t, stmt.Reset())
		require.NoError(t, stmt.BindAll(5, "zero"))
		status, err = stmt.Execute()
		require.NoError(t, err)
		assert.Equal(t, StatusDone, status)
		assert.Equal(t, int64(0), stmt.RowsChanged())
		_, ok = stmt.LastInsertRowID()
		assert.False(t, ok)

		require.NoError(t, stmt.Reset())
		require.NoError(t, stmt.BindAll(7, "seven"))
		_, err = stmt.Execute()
		require.NoError(t, err)
		rowID, ok = stmt.LastInsertRowID()
		assert.True(t, ok)
		assert.Equal(t, int64(7), rowID)
	})

	t.Run("ReadOnlyKeepsCountersClear", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec(`
			CREATE TABLE test (id INTEGER PRIMARY KEY);
			INSERT INTO test (id) VALUES (1);
		`))

		stmt := prepareTestStmt(t, conn, "SELECT count(*) FROM test")
		_, err := stmt.Execute()
		require.NoError(t, err)
		_, err = stmt.Fetch()
		require.NoError(t, err)

		assert.Equal(t, StatusDone, stmt.Status())
		assert.Equal(t, int64(0), stmt.RowsChanged())
		_, ok := stmt.LastInsertRowID()
		assert.False(t, ok)
	})

	t.Run("ConstraintResetIsBenign", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY)"))

		stmt := prepareTestStmt(t, conn, "INSERT INTO test (id) VALUES (?)")
		require.NoError(t, stmt.Bind(1, 1))
		_, err := stmt.Execute()
		require.NoError(t, err)
		require.NoError(t, stmt.Reset())

		require.NoError(t, stmt.Bind(1, 1))
		status, err := stmt.Execute()
		assert.Equal(t, StatusError, status)
		_, ok := status.Signal()
		assert.False(t, ok)

		var sqlErr *Error
		require.ErrorAs(t, err, &sqlErr)
		assert.Equal(t, SQLITE_CONSTRAINT_PRIMARYKEY, sqlErr.Code)
		assert.Equal(t, SQLITE_CONSTRAINT, sqlErr.Code.Primary())
		assert.Equal(t, err, stmt.Err())

		assert.NoError(t, stmt.Reset())
		assert.Equal(t, StatusNone, stmt.Status())
		assert.NoError(t, stmt.Err())
	})

	t.Run("ResetClearsBindings", func(t *testing.T) {
		conn := openTestConn(t)
		stmt := prepareTestStmt(t, conn, "SELECT ?")

		require.NoError(t, stmt.Bind(1, "bound"))
		require.NoError(t, stmt.Reset())

		_, err := stmt.Execute()
		require.NoError(t, err)
		values, err := stmt.Fetch()
		require.NoError(t, err)
		assert.Equal(t, []any{nil}, values)
	})

	t.Run("Counters", func(t *testing.T) {
		conn := openTestConn(t)
		require.NoError(t, conn.Exec(`
			CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT);
			INSERT INTO test (val) VALUES ('b'), ('a'), ('c');
		`))

		stmt := prepareTestStmt(t, conn, "SELECT val FROM test ORDER BY val")
		for range 2 {
			require.NoError(t, stmt.Reset())
			_, err := stmt.Execute()
			require.NoError(t, err)
			for {
				values, err := stmt.Fetch()
				require.NoError(t, err)
				if values == nil {
					break
				}
			}
		}

		counters := stmt.Counters()
		assert.Equal(t, int64(2), counters["nb_execute"])
		assert.Equal(t, int64(0), counters["nb_unlock_wait"])
		assert.Positive(t, counters["vm_step"])
		assert.Positive(t, counters["sort"])
		assert.Positive(t, counters["fullscan_step"])
		assert.Contains(t, counters, "autoindex")
	})

	t.Run("ParseFetchShape", func(t *testing.T) {
		shape, ok := ParseFetchShape("assoc")
		assert.True(t, ok)
		assert.Equal(t, FetchAssoc, shape)

		_, ok = ParseFetchShape("table")
		assert.False(t, ok)
	})
}
