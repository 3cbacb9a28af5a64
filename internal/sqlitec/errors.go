package sqlitec

import (
	"errors"
	"fmt"
)

var (
	// ErrBindRange is returned when a bind index is outside [1, NumBinds].
	ErrBindRange = errors.New("invalid bind parameter index")
	// ErrBindArity is returned when BindAll gets a different number of
	// values than the statement has parameters.
	ErrBindArity = errors.New("invalid number of bind parameters")
	// ErrUnsupportedType is returned when a value of an unsupported Go type
	// is bound.
	ErrUnsupportedType = errors.New("unsupported bind value type")
	// ErrEmptyStatement is returned when the SQL text holds no statement.
	ErrEmptyStatement = errors.New("empty statement")
)

// Error is a recoverable error reported by the engine. The caller decides
// how to recover from it.
type Error struct {
	// Op is the operation that failed, e.g. "prepare statement".
	Op string
	// Code is the extended result code returned by the engine.
	Code ResultCode
	// Msg is the diagnostic text of the engine, when available.
	Msg string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("failed to %s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("failed to %s: %s: %s", e.Op, e.Code, e.Msg)
}

// ContractError reports a defect in the caller or in the binding itself
// rather than a runtime condition: a connection that cannot be opened, a
// WAL hook returning a malformed value, a column type tag outside the set
// the engine documents. Where the failing call has no error return the
// ContractError is raised with panic.
type ContractError struct {
	Op  string
	Msg string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Msg)
}

// IsContractError reports whether err, or any error it wraps, is a
// *ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}
