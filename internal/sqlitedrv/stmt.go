package sqlitedrv

import (
	"context"
	"database/sql/driver"
	"io"

	"github.com/nsqlite/sqlitebind/internal/sqlitec"
)

var (
	_ driver.Stmt             = (*Stmt)(nil)
	_ driver.StmtExecContext  = (*Stmt)(nil)
	_ driver.StmtQueryContext = (*Stmt)(nil)
	_ driver.Rows             = (*Rows)(nil)
	_ driver.Result           = (*Result)(nil)
)

// Stmt implements the database/sql/driver.Stmt interface
type Stmt struct {
	stmt *sqlitec.Stmt
}

// Close closes the statement
func (s *Stmt) Close() error {
	return s.stmt.Close()
}

// NumInput returns the number of placeholder parameters
func (s *Stmt) NumInput() int {
	return s.stmt.NumBinds()
}

// Exec executes a query that doesn't return rows
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.ExecContext(context.Background(), toNamedValues(args))
}

// ExecContext executes a query that doesn't return rows. Rows the statement
// returns anyway are discarded.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if err := s.bind(ctx, args); err != nil {
		return nil, err
	}
	// A pending statement keeps its shared-cache table locks.
	defer func() { _ = s.stmt.Reset() }()

	status, err := s.stmt.Execute()
	if err != nil {
		return nil, err
	}
	for status == sqlitec.StatusRow {
		if _, err := s.stmt.Fetch(); err != nil {
			return nil, err
		}
		status = s.stmt.Status()
	}
	if err := s.stmt.Err(); err != nil {
		return nil, err
	}

	lastInsertID, _ := s.stmt.LastInsertRowID()
	return &Result{
		lastInsertID: lastInsertID,
		rowsAffected: s.stmt.RowsChanged(),
	}, nil
}

// Query executes a query that may return rows
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.QueryContext(context.Background(), toNamedValues(args))
}

// QueryContext executes a query that may return rows
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if err := s.bind(ctx, args); err != nil {
		return nil, err
	}

	if _, err := s.stmt.Execute(); err != nil {
		_ = s.stmt.Reset()
		return nil, err
	}

	return &Rows{
		stmt:    s.stmt,
		columns: s.stmt.ColumnNames(),
		row:     &sqlitec.Row{},
	}, nil
}

// bind rewinds the statement and binds args. nil values are skipped, the
// rewind left their parameters NULL.
func (s *Stmt) bind(ctx context.Context, args []driver.NamedValue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.stmt.IsClosed() {
		return driver.ErrBadConn
	}

	// The reset reports the error of the previous run, which was already
	// returned to its caller.
	_ = s.stmt.Reset()

	for _, arg := range args {
		if arg.Value == nil {
			continue
		}
		if err := s.stmt.Bind(arg.Ordinal, arg.Value); err != nil {
			return err
		}
	}
	return nil
}

func toNamedValues(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, arg := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: arg}
	}
	return named
}

// Rows implements the database/sql/driver.Rows interface
type Rows struct {
	stmt    *sqlitec.Stmt
	columns []string
	row     *sqlitec.Row
}

// Columns returns the names of the columns
func (r *Rows) Columns() []string {
	return r.columns
}

// Close rewinds the statement, releasing its locks. The statement itself is
// closed by its owner.
func (r *Rows) Close() error {
	_ = r.stmt.Reset()
	return nil
}

// Next populates dest with the next row, returning io.EOF when there are no
// more rows.
func (r *Rows) Next(dest []driver.Value) error {
	ok, err := r.stmt.FetchInto(r.row, sqlitec.FetchRow)
	if err != nil {
		return err
	}
	if !ok {
		if err := r.stmt.Err(); err != nil {
			return err
		}
		return io.EOF
	}

	for i, value := range r.row.Values {
		dest[i] = value
	}
	return nil
}

// Result implements the database/sql/driver.Result interface
type Result struct {
	lastInsertID int64
	rowsAffected int64
}

// LastInsertId returns the rowid of the inserted row, or 0 when the
// statement inserted nothing.
func (r *Result) LastInsertId() (int64, error) {
	return r.lastInsertID, nil
}

// RowsAffected returns the number of rows changed by the statement.
func (r *Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
