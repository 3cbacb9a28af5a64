// Package sqlitec provides a lightweight wrapper for the SQLite C library
// built around prepared statements.
//
// A Conn owns one engine connection and keeps a weak registry of the
// statements prepared on it, so closing the connection finalizes every
// statement that is still alive. A Stmt owns its compiled query and a
// private wait primitive used when the shared cache reports a table lock:
// the statement registers for sqlite3_unlock_notify and blocks until the
// engine reports the lock as released, then retries.
//
// Conns and Stmts may be dropped without being closed; the garbage
// collector finalizes them. Close is idempotent and every operation on a
// closed object is a no-op.
//
// A Conn and the statements prepared on it must be used by one goroutine
// at a time. Different Conns may be used concurrently once Config has
// enabled multi-thread mode.
//
// The package links the system SQLite library through pkg-config and needs
// a library built with SQLITE_ENABLE_UNLOCK_NOTIFY.
//
//   - https://www.sqlite.org/cintro.html
//   - https://www.sqlite.org/c3ref/intro.html
//   - https://www.sqlite.org/unlock_notify.html
package sqlitec
