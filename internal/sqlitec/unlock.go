package sqlitec

/*
#include "bridge.h"
*/
import "C"
import (
	"sync"
	"time"

	"github.com/nsqlite/sqlitebind/internal/log"
)

// unlockWaiter is the per-statement rendezvous between a goroutine blocked
// on a shared-cache lock and the unlock-notify callback, which may run on
// any thread.
//
// https://www.sqlite.org/unlock_notify.html
type unlockWaiter struct {
	mu    sync.Mutex
	cond  *sync.Cond
	fired bool
}

func newUnlockWaiter() *unlockWaiter {
	w := &unlockWaiter{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// arm clears the fired flag. It must run before the callback is registered
// so a notification delivered during registration is not lost.
func (w *unlockWaiter) arm() {
	w.mu.Lock()
	w.fired = false
	w.mu.Unlock()
}

func (w *unlockWaiter) fire() {
	w.mu.Lock()
	w.fired = true
	w.cond.Signal()
	w.mu.Unlock()
}

// wait blocks until fire has been called since the last arm. Spurious
// wakeups are absorbed by the loop.
func (w *unlockWaiter) wait() {
	w.mu.Lock()
	for !w.fired {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// waitForUnlock registers the statement for an unlock notification on its
// connection and blocks until the transaction holding the shared-cache lock
// ends. A failed registration, deadlock detection included, is returned as
// is and the caller must not retry.
//
// https://www.sqlite.org/c3ref/unlock_notify.html
func (stmt *Stmt) waitForUnlock() error {
	waiter := stmt.native.waiter
	waiter.arm()

	resCode := C.cust_sqlite3_unlock_notify(stmt.conn.cDB, C.uintptr_t(stmt.native.waiterHandle))
	if resCode != C.SQLITE_OK {
		return stmt.conn.resError("register unlock notify", resCode)
	}

	start := time.Now()
	waiter.wait()
	stmt.nbUnlockWait++

	stmt.conn.logger.DebugNs(log.NsStmt, "shared-cache lock released", log.KV{
		"stmt":     stmt.id,
		"waitedMs": time.Since(start).Milliseconds(),
	})
	return nil
}
