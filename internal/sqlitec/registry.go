package sqlitec

import "weak"

// stmtRegistry tracks the statements prepared on a connection without
// keeping them alive, so that closing the connection can close whatever
// statements are still reachable. It is only used from the goroutine that
// owns the connection.
type stmtRegistry struct {
	nextID uint64
	live   map[uint64]weak.Pointer[Stmt]
}

func newStmtRegistry() *stmtRegistry {
	return &stmtRegistry{live: map[uint64]weak.Pointer[Stmt]{}}
}

// add assigns stmt its id and registers it. Entries whose statement has been
// collected are pruned on the way.
func (r *stmtRegistry) add(stmt *Stmt) {
	r.prune()
	r.nextID++
	stmt.id = r.nextID
	r.live[stmt.id] = weak.Make(stmt)
}

func (r *stmtRegistry) remove(id uint64) {
	delete(r.live, id)
}

func (r *stmtRegistry) prune() {
	for id, wp := range r.live {
		if wp.Value() == nil {
			delete(r.live, id)
		}
	}
}

// len returns the number of live registered statements.
func (r *stmtRegistry) len() int {
	r.prune()
	return len(r.live)
}

// closeAll closes every statement still reachable and empties the registry.
// It returns how many statements were closed.
func (r *stmtRegistry) closeAll() int {
	stmts := make([]*Stmt, 0, len(r.live))
	for _, wp := range r.live {
		if stmt := wp.Value(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	for _, stmt := range stmts {
		_ = stmt.Close()
	}
	clear(r.live)
	return len(stmts)
}
