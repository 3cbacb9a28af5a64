package sqlitec

// Row is a fetched result row. Values holds the columns by position and
// Named by column name, depending on the FetchShape it was fetched with.
type Row struct {
	Values []any
	Named  map[string]any
}

// Index returns the value of the 1-based column i, or nil when out of range.
func (r *Row) Index(i int) any {
	if i < 1 || i > len(r.Values) {
		return nil
	}
	return r.Values[i-1]
}

// Get returns the value of the named column, or nil.
func (r *Row) Get(name string) any {
	return r.Named[name]
}

// Fetch returns the values of the current row and moves to the next one.
// It returns nil once no row is available.
func (stmt *Stmt) Fetch() ([]any, error) {
	row := &Row{}
	ok, err := stmt.FetchInto(row, FetchNone)
	if !ok {
		return nil, err
	}
	return row.Values, err
}

// FetchRow is like Fetch but returns the values by position in a Row.
func (stmt *Stmt) FetchRow() (*Row, error) {
	return stmt.fetchShape(FetchRow)
}

// FetchAssoc is like Fetch but returns the values keyed by column name.
func (stmt *Stmt) FetchAssoc() (*Row, error) {
	return stmt.fetchShape(FetchAssoc)
}

// FetchArray is like Fetch but returns the values both by position and by
// column name.
func (stmt *Stmt) FetchArray() (*Row, error) {
	return stmt.fetchShape(FetchArray)
}

func (stmt *Stmt) fetchShape(shape FetchShape) (*Row, error) {
	row := &Row{}
	ok, err := stmt.FetchInto(row, shape)
	if !ok {
		return nil, err
	}
	return row, err
}

// FetchInto stores the current row into dst with the given shape and moves
// to the next row. dst.Values is overwritten, dst.Named keeps the keys that
// are not column names. It returns false when no row was available.
//
// The statement always steps one row ahead of what it returned: after the
// call Status reports whether another row is ready, and Err holds the error
// of that step. The returned error is only set when the step could not wait
// for a shared-cache lock; dst is filled anyway.
func (stmt *Stmt) FetchInto(dst *Row, shape FetchShape) (bool, error) {
	if stmt.closed || stmt.status != StatusRow {
		return false, nil
	}

	byPosition := shape != FetchAssoc
	byName := shape == FetchAssoc || shape == FetchArray

	if byPosition {
		dst.Values = dst.Values[:0]
	}
	if byName && dst.Named == nil {
		dst.Named = make(map[string]any, len(stmt.columnNames))
	}

	for i, name := range stmt.columnNames {
		value := stmt.columnValue(i)
		if byPosition {
			dst.Values = append(dst.Values, value)
		}
		if byName {
			dst.Named[name] = value
		}
	}

	resCode, err := stmt.step()
	if err != nil {
		stmt.status = StatusError
		stmt.err = err
		return true, err
	}
	stmt.settle(resCode)
	return true, nil
}
