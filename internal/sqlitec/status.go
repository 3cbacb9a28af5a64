package sqlitec

import "github.com/orsinium-labs/enum"

// Status is the execution state of a statement.
type Status enum.Member[string]

var (
	// StatusNone is the state of a statement never executed or just reset.
	StatusNone = Status{Value: "none"}
	// StatusRow means a row is ready to be fetched.
	StatusRow = Status{Value: "row"}
	// StatusDone means the statement ran to completion.
	StatusDone = Status{Value: "done"}
	// StatusError means the last step failed, see Stmt.Err.
	StatusError = Status{Value: "error"}
)

// Signal maps the status to the 1/0 "has a row" signal returned by
// execute. ok is false for StatusNone and StatusError, which carry no
// signal.
func (s Status) Signal() (signal int, ok bool) {
	switch s {
	case StatusRow:
		return 1, true
	case StatusDone:
		return 0, true
	}
	return 0, false
}

func (s Status) String() string {
	return s.Value
}

// FetchShape selects how a fetched row is presented.
type FetchShape enum.Member[string]

var (
	// FetchNone returns the values as a plain list, one per column.
	FetchNone = FetchShape{Value: "none"}
	// FetchRow returns the values by position.
	FetchRow = FetchShape{Value: "row"}
	// FetchAssoc returns the values keyed by column name.
	FetchAssoc = FetchShape{Value: "assoc"}
	// FetchArray returns both views.
	FetchArray = FetchShape{Value: "array"}

	FetchShapes = enum.New(FetchNone, FetchRow, FetchAssoc, FetchArray)
)

// ParseFetchShape returns the shape named s.
func ParseFetchShape(s string) (FetchShape, bool) {
	shape := FetchShapes.Parse(s)
	if shape == nil {
		return FetchShape{}, false
	}
	return *shape, true
}
