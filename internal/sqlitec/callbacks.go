package sqlitec

/*
#include "bridge.h"
*/
import "C"
import "runtime/cgo"

// The functions below are called by the engine from inside step, exec or
// commit, on the goroutine that issued the call. They must never let a
// panic unwind into C.

//export goUnlockNotify
func goUnlockNotify(handle C.uintptr_t) {
	waiter, ok := cgo.Handle(handle).Value().(*unlockWaiter)
	if !ok {
		return
	}
	waiter.fire()
}

//export goWALHook
func goWALHook(handle C.uintptr_t, dbName *C.char, pages C.int) C.int {
	state, ok := cgo.Handle(handle).Value().(*walHookState)
	if !ok {
		return C.SQLITE_OK
	}
	return C.int(state.invoke(C.GoString(dbName), int(pages)))
}
