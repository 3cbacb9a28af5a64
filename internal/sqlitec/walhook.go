package sqlitec

/*
#include "bridge.h"
*/
import "C"
import (
	"fmt"
	"runtime/cgo"
)

// WALHook is invoked synchronously after each commit that appends pages to
// the write-ahead log of dbName. It must return a bool (true meaning
// SQLITE_OK, false SQLITE_ERROR) or an integer result code (int, int32,
// int64 or ResultCode). Any other return value, like a panic inside the
// hook, is a contract violation: the commit is reported to the engine as
// failed and the violation is raised as a *ContractError panic once the
// engine call returns.
//
// Installing a hook disables the engine's automatic checkpoints, the hook
// is expected to call Conn.WALCheckpoint itself.
//
// https://www.sqlite.org/c3ref/wal_hook.html
type WALHook func(dbName string, pages int) any

type walHookState struct {
	fn    WALHook
	fault *ContractError
}

func (h *walHookState) invoke(dbName string, pages int) (resCode ResultCode) {
	defer func() {
		if r := recover(); r != nil {
			h.fault = &ContractError{
				Op:  "wal hook",
				Msg: fmt.Sprintf("hook panicked: %v", r),
			}
			resCode = SQLITE_ERROR
		}
	}()

	switch v := h.fn(dbName, pages).(type) {
	case bool:
		if v {
			return SQLITE_OK
		}
		return SQLITE_ERROR
	case ResultCode:
		return v
	case int:
		return ResultCode(v)
	case int32:
		return ResultCode(v)
	case int64:
		return ResultCode(v)
	default:
		h.fault = &ContractError{
			Op:  "wal hook",
			Msg: fmt.Sprintf("hook returned %T, expected bool or result code", v),
		}
		return SQLITE_ERROR
	}
}

// WALHook installs fn as the connection's WAL hook, replacing any previous
// one. A nil fn removes the hook.
func (conn *Conn) WALHook(fn WALHook) {
	if conn.IsClosed() {
		return
	}
	conn.clearWALHook()
	if fn == nil {
		return
	}

	conn.walHook = &walHookState{fn: fn}
	conn.walHookHandle = cgo.NewHandle(conn.walHook)
	C.cust_sqlite3_wal_hook(conn.cDB, C.uintptr_t(conn.walHookHandle))
}

func (conn *Conn) clearWALHook() {
	if conn.walHook == nil {
		return
	}
	C.cust_sqlite3_wal_hook_clear(conn.cDB)
	conn.walHookHandle.Delete()
	conn.walHook = nil
	conn.walHookHandle = 0
}

// raiseHookFault re-raises on the calling goroutine the contract violation
// recorded by the WAL hook during the last engine call, if any.
func (conn *Conn) raiseHookFault() {
	if conn.walHook == nil || conn.walHook.fault == nil {
		return
	}
	fault := conn.walHook.fault
	conn.walHook.fault = nil
	panic(fault)
}
