package shell

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
	"github.com/nsqlite/sqlitebind/internal/styled"
)

// cmdQuery runs the first statement of input and prints its rows, or the
// changes it made when it returns none.
func cmdQuery(sh *Shell, input string) {
	stmt, err := sh.conn.Prepare(input)
	if err != nil {
		printError(sh, err)
		return
	}
	if stmt == nil {
		printError(sh, fmt.Errorf("database is closed"))
		return
	}
	sh.setLastStmt(stmt)
	// Leave the statement reset so it holds no lock between commands.
	defer func() { _ = stmt.Reset() }()

	status, err := stmt.Execute()
	if err != nil {
		printError(sh, err)
		return
	}
	if status == sqlitec.StatusError {
		printError(sh, stmt.Err())
		return
	}

	tw := styled.NewTableWriter()

	if stmt.ColumnCount() == 0 {
		lastInsertID := any("NULL")
		if rowID, ok := stmt.LastInsertRowID(); ok {
			lastInsertID = rowID
		}
		tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
		tw.AppendRow(table.Row{"OK", stmt.RowsChanged(), lastInsertID})
		fmt.Fprintln(sh.out, tw.Render())
		return
	}

	header := table.Row{}
	for _, col := range stmt.ColumnNames() {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	rows := 0
	row := &sqlitec.Row{}
	for {
		ok, err := stmt.FetchInto(row, sqlitec.FetchRow)
		if !ok {
			break
		}
		values := make(table.Row, len(row.Values))
		for i, value := range row.Values {
			values[i] = styled.FormatValue(value)
		}
		tw.AppendRow(values)
		rows++
		if err != nil {
			printError(sh, err)
			return
		}
	}

	if stmt.Status() == sqlitec.StatusError {
		printError(sh, stmt.Err())
		return
	}

	fmt.Fprintln(sh.out, tw.Render())
	styled.DimmedColor().Fprintf(sh.out, "%d row(s)\n", rows)
}

func printError(sh *Shell, err error) {
	styled.ErrorColor().Fprintf(sh.out, "Error: %s\n", err)
}
