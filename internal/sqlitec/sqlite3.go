package sqlitec

/*
#cgo pkg-config: sqlite3
#cgo CFLAGS: -DSQLITE_ENABLE_UNLOCK_NOTIFY
#include "bridge.h"
*/
import "C"
import (
	"fmt"
	"runtime"
	"runtime/cgo"
	"strings"
	"sync"
	"unsafe"

	"github.com/nsqlite/sqlitebind/internal/log"
)

// ConfigMultiThread is the Config option that switches the engine to
// multi-thread mode and enables the shared cache for the whole process.
const ConfigMultiThread = "multithread"

// Config applies a process-wide engine configuration. It must be called
// before the first connection is opened.
//
// https://www.sqlite.org/c3ref/config.html
// https://www.sqlite.org/c3ref/enable_shared_cache.html
func Config(option string) error {
	switch option {
	case ConfigMultiThread:
		resCode := C.cust_sqlite3_config_multithread()
		if resCode != C.SQLITE_OK {
			return &ContractError{
				Op:  "config",
				Msg: fmt.Sprintf("%s: %s", option, getResCodeStr(resCode)),
			}
		}
		C.sqlite3_enable_shared_cache(1)
		return nil
	}

	return fmt.Errorf("unknown config option %q", option)
}

// Conn represents a high-level connection to a SQLite database.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type Conn struct {
	cDB    *C.sqlite3
	path   string
	logger log.Logger
	stmts  *stmtRegistry

	walHook       *walHookState
	walHookHandle cgo.Handle

	// reclaimMu guards closed and reclaimed, statement finalizers run on
	// the garbage collector goroutine and touch both.
	reclaimMu sync.Mutex
	closed    bool
	reclaimed []*stmtHandle
}

// CheckpointResult is the outcome of a passive WAL checkpoint.
type CheckpointResult struct {
	// Code is SQLITE_OK or SQLITE_BUSY.
	Code ResultCode
	// LogFrames is the size of the WAL in frames.
	LogFrames int
	// CheckpointedFrames is the number of frames copied into the database.
	CheckpointedFrames int
}

// getLastError returns the last error message from the SQLite database.
func (conn *Conn) getLastError() string {
	if conn.cDB == nil {
		return "database connection is nil"
	}
	return C.GoString(C.sqlite3_errmsg(conn.cDB))
}

// resError builds the reported error for a failed engine call.
func (conn *Conn) resError(op string, resCode C.int) error {
	return &Error{
		Op:   op,
		Code: ResultCode(resCode),
		Msg:  conn.getLastError(),
	}
}

// Open opens a new SQLite database connection using the given path, in
// read-write-create mode with URI filenames and extended result codes
// enabled, then runs the post-open queries (WAL journal mode by default).
//
// Failing to open the database is treated as a configuration defect and
// reported as a *ContractError.
//
// https://www.sqlite.org/c3ref/open.html
func Open(filePath string, opts ...Option) (*Conn, error) {
	o := newOpenOptions(opts)

	cFilePath := C.CString(filePath)
	defer C.free(unsafe.Pointer(cFilePath))

	flags := C.SQLITE_OPEN_READWRITE | C.SQLITE_OPEN_CREATE |
		C.SQLITE_OPEN_URI | C.SQLITE_OPEN_WAL

	var db *C.sqlite3
	resCode := C.sqlite3_open_v2(cFilePath, &db, C.int(flags), nil)
	if resCode != C.SQLITE_OK {
		errMsg := (&Conn{cDB: db}).getLastError()
		_ = C.sqlite3_close_v2(db)
		return nil, &ContractError{
			Op:  "open",
			Msg: fmt.Sprintf("%s: %s: %s", filePath, getResCodeStr(resCode), errMsg),
		}
	}

	// https://sqlite.org/c3ref/extended_result_codes.html
	C.sqlite3_extended_result_codes(db, 1)

	conn := &Conn{
		cDB:    db,
		path:   filePath,
		logger: o.logger,
		stmts:  newStmtRegistry(),
	}
	runtime.SetFinalizer(conn, func(c *Conn) {
		_ = c.Close()
	})

	for _, query := range o.postOpenQueries {
		if err := conn.Exec(query); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf(`failed to execute "%s" post-open query: %w`, query, err)
		}
	}

	conn.logger.DebugNs(log.NsConn, "connection opened", log.KV{"path": filePath})
	return conn, nil
}

// MustOpen is like Open but panics when the database cannot be opened.
func MustOpen(filePath string, opts ...Option) *Conn {
	conn, err := Open(filePath, opts...)
	if err != nil {
		panic(err)
	}
	return conn
}

// Path returns the path the connection was opened with.
func (conn *Conn) Path() string {
	return conn.path
}

// IsClosed reports whether Close has been called.
func (conn *Conn) IsClosed() bool {
	conn.reclaimMu.Lock()
	defer conn.reclaimMu.Unlock()
	return conn.closed
}

// Close closes every statement still registered on the connection, drops
// the WAL hook and closes the connection. It is safe to call Close more
// than once.
//
// The sqlite3_close_v2() interface is intended for use with host
// languages that are garbage collected, and where the order in which
// destructors are called is arbitrary.
//
// https://www.sqlite.org/c3ref/close.html
func (conn *Conn) Close() error {
	if conn.IsClosed() {
		return nil
	}

	cascaded := conn.stmts.closeAll()
	conn.drainReclaimed()
	conn.clearWALHook()

	resCode := C.sqlite3_close_v2(conn.cDB)

	conn.reclaimMu.Lock()
	conn.closed = true
	for _, h := range conn.reclaimed {
		h.release()
	}
	conn.reclaimed = nil
	conn.reclaimMu.Unlock()

	conn.cDB = nil
	runtime.SetFinalizer(conn, nil)

	conn.logger.DebugNs(log.NsConn, "connection closed", log.KV{
		"path":       conn.path,
		"statements": cascaded,
	})

	if resCode != C.SQLITE_OK {
		return &Error{Op: "close database", Code: ResultCode(resCode)}
	}
	return nil
}

// TotalChanges returns the number of rows inserted, modified or deleted
// since the connection was opened, or 0 once it is closed.
//
// https://www.sqlite.org/c3ref/total_changes.html
func (conn *Conn) TotalChanges() int64 {
	if conn.IsClosed() {
		return 0
	}
	return int64(C.sqlite3_total_changes(conn.cDB))
}

// WALCheckpoint runs a passive checkpoint on the named database, "" meaning
// every attached database. SQLITE_BUSY is a result, not an error: the
// caller inspects CheckpointResult.Code.
//
// https://www.sqlite.org/c3ref/wal_checkpoint_v2.html
func (conn *Conn) WALCheckpoint(dbName string) (CheckpointResult, error) {
	if conn.IsClosed() {
		return CheckpointResult{}, nil
	}

	cDBName := C.CString(dbName)
	defer C.free(unsafe.Pointer(cDBName))

	var pnLog, pnCkpt C.int = -1, -1
	resCode := C.sqlite3_wal_checkpoint_v2(
		conn.cDB, cDBName, C.SQLITE_CHECKPOINT_PASSIVE, &pnLog, &pnCkpt,
	)

	res := CheckpointResult{
		Code:               ResultCode(resCode),
		LogFrames:          int(pnLog),
		CheckpointedFrames: int(pnCkpt),
	}
	switch res.Code {
	case SQLITE_OK, SQLITE_BUSY:
		conn.logger.DebugNs(log.NsWAL, "checkpoint", log.KV{
			"db":           dbName,
			"code":         res.Code.String(),
			"log":          res.LogFrames,
			"checkpointed": res.CheckpointedFrames,
		})
		return res, nil
	}

	return res, conn.resError("checkpoint wal", resCode)
}

// Exec runs every statement of the given SQL text to completion, discarding
// result rows. Statements wait on shared-cache locks like Stmt.Execute.
// The text ends at its first NUL byte, as it does for the engine.
func (conn *Conn) Exec(query string) error {
	if conn.IsClosed() {
		return nil
	}
	conn.drainReclaimed()

	if i := strings.IndexByte(query, 0); i >= 0 {
		query = query[:i]
	}

	rest := query
	for rest != "" {
		stmt, tail, err := conn.prepare(rest)
		if err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		if len(tail) >= len(rest) {
			// Nothing was consumed, the rest of the text is not SQL.
			if stmt != nil {
				stmt.native.release()
			}
			return nil
		}
		rest = tail
		if stmt == nil {
			continue
		}

		if err := conn.execStmt(stmt); err != nil {
			return err
		}
	}

	return nil
}

// execStmt steps a statement prepared by Exec to completion and finalizes it.
func (conn *Conn) execStmt(stmt *Stmt) error {
	defer stmt.native.release()

	resCode, err := stmt.step()
	for err == nil && resCode == SQLITE_ROW {
		resCode, err = stmt.step()
	}

	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if resCode != SQLITE_DONE {
		return conn.resError("execute query", C.int(resCode))
	}
	return nil
}

// Prepare compiles the first statement of the given SQL text. It returns
// nil and no error when the connection is already closed.
//
// https://www.sqlite.org/c3ref/prepare.html
func (conn *Conn) Prepare(query string) (*Stmt, error) {
	if conn.IsClosed() {
		return nil, nil
	}
	conn.drainReclaimed()

	stmt, _, err := conn.prepare(query)
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", ErrEmptyStatement)
	}

	conn.stmts.add(stmt)
	runtime.SetFinalizer(stmt, func(s *Stmt) {
		s.conn.reclaim(s.native)
	})

	return stmt, nil
}

// prepare compiles the first statement of query and returns the text that
// follows it. A nil statement with no error means query held only
// whitespace or comments up to the tail.
func (conn *Conn) prepare(query string) (*Stmt, string, error) {
	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var cStmt *C.sqlite3_stmt
	var cTail *C.char
	resCode := C.sqlite3_prepare_v2(conn.cDB, cQuery, C.int(len(query)), &cStmt, &cTail)
	if resCode != C.SQLITE_OK {
		return nil, "", conn.resError("prepare statement", resCode)
	}

	tail := ""
	if cTail != nil {
		consumed := int(uintptr(unsafe.Pointer(cTail)) - uintptr(unsafe.Pointer(cQuery)))
		if consumed < len(query) {
			tail = query[consumed:]
		}
	}

	if cStmt == nil {
		return nil, tail, nil
	}
	return newStmt(conn, cStmt), tail, nil
}

// Raw lends the native sqlite3 connection pointer to fn. The pointer must
// not be used once fn returns. Raw does nothing on a closed connection.
func (conn *Conn) Raw(fn func(db unsafe.Pointer) error) error {
	if conn.IsClosed() {
		return nil
	}
	return fn(unsafe.Pointer(conn.cDB))
}

// reclaim receives the native handle of a statement collected by the
// garbage collector. While the connection is open the handle is queued and
// finalized by the goroutine using the connection; once closed nobody else
// uses the connection and it is finalized right away.
func (conn *Conn) reclaim(h *stmtHandle) {
	conn.reclaimMu.Lock()
	defer conn.reclaimMu.Unlock()

	if conn.closed {
		h.release()
		return
	}
	conn.reclaimed = append(conn.reclaimed, h)
}

// drainReclaimed finalizes the statements queued by reclaim.
func (conn *Conn) drainReclaimed() {
	conn.reclaimMu.Lock()
	pending := conn.reclaimed
	conn.reclaimed = nil
	conn.reclaimMu.Unlock()

	for _, h := range pending {
		h.release()
	}
	if len(pending) > 0 {
		conn.logger.DebugNs(log.NsConn, "finalized reclaimed statements", log.KV{
			"count": len(pending),
		})
	}
}
