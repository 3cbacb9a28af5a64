package sqlitec

/*
#include "bridge.h"
*/
import "C"
import (
	"fmt"
	"math"
	"unsafe"
)

// columnValue converts the value of the 0-based column i of the current row.
// Blobs are not surfaced and read as nil.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) columnValue(i int) any {
	cStmt := stmt.native.cStmt
	cIndex := C.int(i)

	switch colType := C.sqlite3_column_type(cStmt, cIndex); colType {
	case C.SQLITE_INTEGER:
		return int64(C.sqlite3_column_int64(cStmt, cIndex))
	case C.SQLITE_FLOAT:
		return float64(C.sqlite3_column_double(cStmt, cIndex))
	case C.SQLITE_TEXT:
		// sqlite3_column_bytes must come after sqlite3_column_text.
		text := C.sqlite3_column_text(cStmt, cIndex)
		size := C.sqlite3_column_bytes(cStmt, cIndex)
		return C.GoStringN((*C.char)(unsafe.Pointer(text)), size)
	case C.SQLITE_NULL, C.SQLITE_BLOB:
		return nil
	default:
		panic(&ContractError{
			Op:  "fetch column",
			Msg: fmt.Sprintf("column %d has unknown type tag %d", i, int(colType)),
		})
	}
}

// bindValue binds value to the 1-based parameter index, which the caller
// has already validated.
func (stmt *Stmt) bindValue(index int, value any) error {
	switch v := value.(type) {
	case int:
		return stmt.bindInt64(index, int64(v))
	case int8:
		return stmt.bindInt64(index, int64(v))
	case int16:
		return stmt.bindInt64(index, int64(v))
	case int32:
		return stmt.bindInt64(index, int64(v))
	case int64:
		return stmt.bindInt64(index, v)
	case uint8:
		return stmt.bindInt64(index, int64(v))
	case uint16:
		return stmt.bindInt64(index, int64(v))
	case uint32:
		return stmt.bindInt64(index, int64(v))
	case uint:
		return stmt.bindUint64(index, uint64(v))
	case uint64:
		return stmt.bindUint64(index, v)
	case float32:
		return stmt.bindFloat64(index, float64(v))
	case float64:
		return stmt.bindFloat64(index, v)
	case string:
		return stmt.bindText(index, v)
	}

	return fmt.Errorf("failed to bind parameter %d: %w: %T", index, ErrUnsupportedType, value)
}

func (stmt *Stmt) bindInt64(index int, v int64) error {
	resCode := C.sqlite3_bind_int64(stmt.native.cStmt, C.int(index), C.sqlite3_int64(v))
	return stmt.bindResult(index, resCode)
}

func (stmt *Stmt) bindUint64(index int, v uint64) error {
	if v > math.MaxInt64 {
		return fmt.Errorf("failed to bind parameter %d: %d overflows a 64-bit integer", index, v)
	}
	return stmt.bindInt64(index, int64(v))
}

func (stmt *Stmt) bindFloat64(index int, v float64) error {
	resCode := C.sqlite3_bind_double(stmt.native.cStmt, C.int(index), C.double(v))
	return stmt.bindResult(index, resCode)
}

// bindText binds a copy of v, embedded NUL bytes included.
func (stmt *Stmt) bindText(index int, v string) error {
	cText := C.CString(v)
	defer C.free(unsafe.Pointer(cText))

	resCode := C.cust_sqlite3_bind_text(stmt.native.cStmt, C.int(index), cText, C.int(len(v)))
	return stmt.bindResult(index, resCode)
}

func (stmt *Stmt) bindResult(index int, resCode C.int) error {
	if resCode != C.SQLITE_OK {
		return stmt.conn.resError(fmt.Sprintf("bind parameter %d", index), resCode)
	}
	return nil
}
