package sqlitec

// ResultCode is a SQLite result code. Connections opened by this package
// report extended result codes, the primary code is in the low byte.
//
// https://www.sqlite.org/rescode.html
type ResultCode int

const (
	SQLITE_OK         ResultCode = 0
	SQLITE_ERROR      ResultCode = 1
	SQLITE_INTERNAL   ResultCode = 2
	SQLITE_PERM       ResultCode = 3
	SQLITE_ABORT      ResultCode = 4
	SQLITE_BUSY       ResultCode = 5
	SQLITE_LOCKED     ResultCode = 6
	SQLITE_NOMEM      ResultCode = 7
	SQLITE_READONLY   ResultCode = 8
	SQLITE_INTERRUPT  ResultCode = 9
	SQLITE_IOERR      ResultCode = 10
	SQLITE_CORRUPT    ResultCode = 11
	SQLITE_NOTFOUND   ResultCode = 12
	SQLITE_FULL       ResultCode = 13
	SQLITE_CANTOPEN   ResultCode = 14
	SQLITE_PROTOCOL   ResultCode = 15
	SQLITE_EMPTY      ResultCode = 16
	SQLITE_SCHEMA     ResultCode = 17
	SQLITE_TOOBIG     ResultCode = 18
	SQLITE_CONSTRAINT ResultCode = 19
	SQLITE_MISMATCH   ResultCode = 20
	SQLITE_MISUSE     ResultCode = 21
	SQLITE_NOLFS      ResultCode = 22
	SQLITE_AUTH       ResultCode = 23
	SQLITE_FORMAT     ResultCode = 24
	SQLITE_RANGE      ResultCode = 25
	SQLITE_NOTADB     ResultCode = 26
	SQLITE_NOTICE     ResultCode = 27
	SQLITE_WARNING    ResultCode = 28
	SQLITE_ROW        ResultCode = 100
	SQLITE_DONE       ResultCode = 101

	SQLITE_BUSY_SNAPSHOT         ResultCode = SQLITE_BUSY | (2 << 8)
	SQLITE_LOCKED_SHAREDCACHE    ResultCode = SQLITE_LOCKED | (1 << 8)
	SQLITE_CONSTRAINT_CHECK      ResultCode = SQLITE_CONSTRAINT | (1 << 8)
	SQLITE_CONSTRAINT_FOREIGNKEY ResultCode = SQLITE_CONSTRAINT | (3 << 8)
	SQLITE_CONSTRAINT_NOTNULL    ResultCode = SQLITE_CONSTRAINT | (5 << 8)
	SQLITE_CONSTRAINT_PRIMARYKEY ResultCode = SQLITE_CONSTRAINT | (6 << 8)
	SQLITE_CONSTRAINT_UNIQUE     ResultCode = SQLITE_CONSTRAINT | (8 << 8)
	SQLITE_CONSTRAINT_ROWID      ResultCode = SQLITE_CONSTRAINT | (10 << 8)
	SQLITE_CONSTRAINT_PINNED     ResultCode = SQLITE_CONSTRAINT | (11 << 8)
	SQLITE_CONSTRAINT_DATATYPE   ResultCode = SQLITE_CONSTRAINT | (12 << 8)
	SQLITE_CONSTRAINT_TRIGGER    ResultCode = SQLITE_CONSTRAINT | (7 << 8)
	SQLITE_CONSTRAINT_FUNCTION   ResultCode = SQLITE_CONSTRAINT | (4 << 8)
	SQLITE_CONSTRAINT_VTAB       ResultCode = SQLITE_CONSTRAINT | (9 << 8)
	SQLITE_CONSTRAINT_COMMITHOOK ResultCode = SQLITE_CONSTRAINT | (2 << 8)
)

var resCodeNames = map[ResultCode]string{
	SQLITE_OK:                    "SQLITE_OK",
	SQLITE_ERROR:                 "SQLITE_ERROR",
	SQLITE_INTERNAL:              "SQLITE_INTERNAL",
	SQLITE_PERM:                  "SQLITE_PERM",
	SQLITE_ABORT:                 "SQLITE_ABORT",
	SQLITE_BUSY:                  "SQLITE_BUSY",
	SQLITE_LOCKED:                "SQLITE_LOCKED",
	SQLITE_NOMEM:                 "SQLITE_NOMEM",
	SQLITE_READONLY:              "SQLITE_READONLY",
	SQLITE_INTERRUPT:             "SQLITE_INTERRUPT",
	SQLITE_IOERR:                 "SQLITE_IOERR",
	SQLITE_CORRUPT:               "SQLITE_CORRUPT",
	SQLITE_NOTFOUND:              "SQLITE_NOTFOUND",
	SQLITE_FULL:                  "SQLITE_FULL",
	SQLITE_CANTOPEN:              "SQLITE_CANTOPEN",
	SQLITE_PROTOCOL:              "SQLITE_PROTOCOL",
	SQLITE_EMPTY:                 "SQLITE_EMPTY",
	SQLITE_SCHEMA:                "SQLITE_SCHEMA",
	SQLITE_TOOBIG:                "SQLITE_TOOBIG",
	SQLITE_CONSTRAINT:            "SQLITE_CONSTRAINT",
	SQLITE_MISMATCH:              "SQLITE_MISMATCH",
	SQLITE_MISUSE:                "SQLITE_MISUSE",
	SQLITE_NOLFS:                 "SQLITE_NOLFS",
	SQLITE_AUTH:                  "SQLITE_AUTH",
	SQLITE_FORMAT:                "SQLITE_FORMAT",
	SQLITE_RANGE:                 "SQLITE_RANGE",
	SQLITE_NOTADB:                "SQLITE_NOTADB",
	SQLITE_NOTICE:                "SQLITE_NOTICE",
	SQLITE_WARNING:               "SQLITE_WARNING",
	SQLITE_ROW:                   "SQLITE_ROW",
	SQLITE_DONE:                  "SQLITE_DONE",
	SQLITE_BUSY_SNAPSHOT:         "SQLITE_BUSY_SNAPSHOT",
	SQLITE_LOCKED_SHAREDCACHE:    "SQLITE_LOCKED_SHAREDCACHE",
	SQLITE_CONSTRAINT_CHECK:      "SQLITE_CONSTRAINT_CHECK",
	SQLITE_CONSTRAINT_FOREIGNKEY: "SQLITE_CONSTRAINT_FOREIGNKEY",
	SQLITE_CONSTRAINT_NOTNULL:    "SQLITE_CONSTRAINT_NOTNULL",
	SQLITE_CONSTRAINT_PRIMARYKEY: "SQLITE_CONSTRAINT_PRIMARYKEY",
	SQLITE_CONSTRAINT_UNIQUE:     "SQLITE_CONSTRAINT_UNIQUE",
	SQLITE_CONSTRAINT_ROWID:      "SQLITE_CONSTRAINT_ROWID",
	SQLITE_CONSTRAINT_PINNED:     "SQLITE_CONSTRAINT_PINNED",
	SQLITE_CONSTRAINT_DATATYPE:   "SQLITE_CONSTRAINT_DATATYPE",
	SQLITE_CONSTRAINT_TRIGGER:    "SQLITE_CONSTRAINT_TRIGGER",
	SQLITE_CONSTRAINT_FUNCTION:   "SQLITE_CONSTRAINT_FUNCTION",
	SQLITE_CONSTRAINT_VTAB:       "SQLITE_CONSTRAINT_VTAB",
	SQLITE_CONSTRAINT_COMMITHOOK: "SQLITE_CONSTRAINT_COMMITHOOK",
}

// Primary strips the extended part of the code.
func (rc ResultCode) Primary() ResultCode {
	return rc & 0xff
}

// String returns the name of the code, falling back to the name of the
// primary code for extended codes this package does not list.
func (rc ResultCode) String() string {
	if name, ok := resCodeNames[rc]; ok {
		return name
	}
	if name, ok := resCodeNames[rc.Primary()]; ok {
		return name
	}
	return "SQLITE_UNKNOWN"
}

// getResCodeStr returns the name of a result code as reported by the C API.
func getResCodeStr[T ~int | ~int32](rc T) string {
	return ResultCode(rc).String()
}
