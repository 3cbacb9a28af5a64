package sqlitec

/*
#include "bridge.h"
*/
import "C"
import (
	"fmt"
	"runtime"
	"runtime/cgo"
)

// stmtHandle owns the native side of a statement. It holds no reference to
// the Stmt or its Conn so the garbage collector can reclaim them.
type stmtHandle struct {
	cStmt        *C.sqlite3_stmt
	waiter       *unlockWaiter
	waiterHandle cgo.Handle
}

// release finalizes the compiled statement and drops the waiter handle. It
// is a no-op after the first call.
//
// https://www.sqlite.org/c3ref/finalize.html
func (h *stmtHandle) release() {
	if h.cStmt == nil {
		return
	}
	C.sqlite3_finalize(h.cStmt)
	h.cStmt = nil
	h.waiterHandle.Delete()
}

// Stmt represents a prepared statement bound to the connection that
// prepared it. A Stmt must only be used from the goroutine that uses its
// connection.
//
// https://www.sqlite.org/c3ref/stmt.html
type Stmt struct {
	conn   *Conn
	native *stmtHandle
	id     uint64
	closed bool

	readOnly    bool
	numBinds    int
	columnNames []string

	status          Status
	err             error
	rowsChanged     int64
	lastInsertRowID int64
	lastInsertValid bool
	nbExecute       int64
	nbUnlockWait    int64
}

func newStmt(conn *Conn, cStmt *C.sqlite3_stmt) *Stmt {
	waiter := newUnlockWaiter()
	stmt := &Stmt{
		conn: conn,
		native: &stmtHandle{
			cStmt:        cStmt,
			waiter:       waiter,
			waiterHandle: cgo.NewHandle(waiter),
		},
		readOnly: C.sqlite3_stmt_readonly(cStmt) != 0,
		numBinds: int(C.sqlite3_bind_parameter_count(cStmt)),
		status:   StatusNone,
	}

	// Result columns of a compiled statement never change, the names are
	// captured once.
	count := int(C.sqlite3_column_count(cStmt))
	stmt.columnNames = make([]string, count)
	for i := range count {
		stmt.columnNames[i] = C.GoString(C.sqlite3_column_name(cStmt, C.int(i)))
	}

	return stmt
}

// step advances the statement, waiting out shared-cache locks held by other
// connections. The returned code is the outcome of the last engine step:
// SQLITE_ROW, SQLITE_DONE or an error code. err is only set when waiting
// for the lock release was not possible.
//
// https://www.sqlite.org/c3ref/step.html
func (stmt *Stmt) step() (ResultCode, error) {
	cStmt := stmt.native.cStmt
	for {
		resCode := ResultCode(C.sqlite3_step(cStmt))
		stmt.conn.raiseHookFault()

		if resCode != SQLITE_LOCKED_SHAREDCACHE {
			return resCode, nil
		}
		if err := stmt.waitForUnlock(); err != nil {
			return resCode, err
		}
		C.sqlite3_reset(cStmt)
	}
}

// settle moves the statement to the state matching the outcome of a step.
func (stmt *Stmt) settle(resCode ResultCode) Status {
	switch resCode {
	case SQLITE_ROW:
		stmt.status = StatusRow
	case SQLITE_DONE:
		stmt.status = StatusDone
	default:
		stmt.status = StatusError
		stmt.err = stmt.conn.resError("step statement", C.int(resCode))
	}
	return stmt.status
}

// Execute runs the statement up to its first result row or to completion.
// It returns StatusRow when a row is ready to be fetched, StatusDone when
// the statement finished, and StatusError with the engine error otherwise.
//
// When a writing statement completes, RowsChanged and LastInsertRowID
// describe its effect. The last inserted rowid is only reported when rows
// were actually changed, so an insert skipped by a conflict clause reports
// none.
func (stmt *Stmt) Execute() (Status, error) {
	if stmt.closed {
		return StatusNone, nil
	}

	stmt.rowsChanged = 0
	stmt.lastInsertRowID = 0
	stmt.lastInsertValid = false
	stmt.err = nil

	resCode, err := stmt.step()
	if err != nil {
		stmt.status = StatusError
		stmt.err = err
		return stmt.status, err
	}
	stmt.nbExecute++

	if stmt.settle(resCode) == StatusDone && !stmt.readOnly {
		// https://www.sqlite.org/c3ref/changes.html
		stmt.rowsChanged = int64(C.sqlite3_changes(stmt.conn.cDB))
		if stmt.rowsChanged != 0 {
			// https://www.sqlite.org/c3ref/last_insert_rowid.html
			stmt.lastInsertRowID = int64(C.sqlite3_last_insert_rowid(stmt.conn.cDB))
			stmt.lastInsertValid = true
		}
	}

	return stmt.status, stmt.err
}

// Reset rewinds the statement and clears its bindings. A constraint
// violation left by the last step is not reported, resetting is the normal
// way to recover from it.
//
// https://www.sqlite.org/c3ref/reset.html
func (stmt *Stmt) Reset() error {
	if stmt.closed {
		return nil
	}

	resCode := ResultCode(C.sqlite3_reset(stmt.native.cStmt))
	C.sqlite3_clear_bindings(stmt.native.cStmt)
	stmt.status = StatusNone
	stmt.err = nil

	if resCode != SQLITE_OK && resCode.Primary() != SQLITE_CONSTRAINT {
		return stmt.conn.resError("reset statement", C.int(resCode))
	}
	return nil
}

// Close finalizes the statement. It is safe to call Close more than once,
// and every other method becomes a no-op once the statement is closed.
func (stmt *Stmt) Close() error {
	if stmt.closed {
		return nil
	}
	stmt.closed = true

	stmt.conn.stmts.remove(stmt.id)
	runtime.SetFinalizer(stmt, nil)
	stmt.native.release()
	stmt.columnNames = nil
	stmt.status = StatusNone
	return nil
}

// IsClosed reports whether the statement has been closed, directly or by
// closing its connection.
func (stmt *Stmt) IsClosed() bool {
	return stmt.closed
}

// Bind binds value to the parameter at the 1-based index.
//
// Integers bind as 64-bit integers, floats as doubles and strings as text.
// Any other type is rejected with ErrUnsupportedType.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) Bind(index int, value any) error {
	if stmt.closed {
		return nil
	}
	if index < 1 || index > stmt.numBinds {
		return fmt.Errorf(
			"failed to bind parameter %d of %d: %w", index, stmt.numBinds, ErrBindRange,
		)
	}
	return stmt.bindValue(index, value)
}

// BindAll binds values to the parameters in order. The number of values
// must match NumBinds, otherwise nothing is bound.
func (stmt *Stmt) BindAll(values ...any) error {
	if stmt.closed {
		return nil
	}
	if len(values) != stmt.numBinds {
		return fmt.Errorf(
			"failed to bind %d values to %d parameters: %w", len(values), stmt.numBinds, ErrBindArity,
		)
	}

	for i, value := range values {
		if err := stmt.bindValue(i+1, value); err != nil {
			return err
		}
	}
	return nil
}

// RowsChanged returns the number of rows changed by the last execution of a
// writing statement, or 0 once the statement is closed.
func (stmt *Stmt) RowsChanged() int64 {
	if stmt.closed {
		return 0
	}
	return stmt.rowsChanged
}

// LastInsertRowID returns the rowid of the row inserted by the last
// execution. ok is false when no row was inserted or the statement is
// closed.
func (stmt *Stmt) LastInsertRowID() (rowID int64, ok bool) {
	if stmt.closed {
		return 0, false
	}
	return stmt.lastInsertRowID, stmt.lastInsertValid
}

// NumBinds returns the number of parameters of the statement, or 0 once it
// is closed.
func (stmt *Stmt) NumBinds() int {
	if stmt.closed {
		return 0
	}
	return stmt.numBinds
}

// ColumnCount returns the number of result columns.
func (stmt *Stmt) ColumnCount() int {
	return len(stmt.columnNames)
}

// ColumnNames returns the names of the result columns in order.
func (stmt *Stmt) ColumnNames() []string {
	return append([]string(nil), stmt.columnNames...)
}

// ReadOnly reports whether the statement makes no direct change to the
// database. It is false once the statement is closed.
//
// https://www.sqlite.org/c3ref/stmt_readonly.html
func (stmt *Stmt) ReadOnly() bool {
	return !stmt.closed && stmt.readOnly
}

// Status returns the execution state of the statement.
func (stmt *Stmt) Status() Status {
	return stmt.status
}

// Err returns the error of the last step, including the look-ahead step
// made by the fetch methods.
func (stmt *Stmt) Err() error {
	return stmt.err
}

// SQL returns the text the statement was compiled from.
//
// https://www.sqlite.org/c3ref/expanded_sql.html
func (stmt *Stmt) SQL() string {
	if stmt.closed {
		return ""
	}
	return C.GoString(C.sqlite3_sql(stmt.native.cStmt))
}

// Counters returns the engine execution statistics of the statement along
// with the number of executions and of shared-cache lock waits.
//
// https://www.sqlite.org/c3ref/stmt_status.html
func (stmt *Stmt) Counters() map[string]int64 {
	if stmt.closed {
		return nil
	}

	stat := func(op C.int) int64 {
		return int64(C.sqlite3_stmt_status(stmt.native.cStmt, op, 0))
	}
	return map[string]int64{
		"fullscan_step":  stat(C.SQLITE_STMTSTATUS_FULLSCAN_STEP),
		"sort":           stat(C.SQLITE_STMTSTATUS_SORT),
		"autoindex":      stat(C.SQLITE_STMTSTATUS_AUTOINDEX),
		"vm_step":        stat(C.SQLITE_STMTSTATUS_VM_STEP),
		"nb_execute":     stmt.nbExecute,
		"nb_unlock_wait": stmt.nbUnlockWait,
	}
}
