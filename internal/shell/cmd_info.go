package shell

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitebind/internal/styled"
	"github.com/nsqlite/sqlitebind/internal/util/numutil"
)

func cmdCount(sh *Shell, tableName string) {
	if tableName == "" {
		fmt.Fprintln(sh.out, "Usage: .count [table_name]")
		return
	}
	cmdQuery(sh, fmt.Sprintf("SELECT COUNT(*) AS count FROM %s", quoteIdent(tableName)))
}

func cmdColumns(sh *Shell, tableName string) {
	if tableName == "" {
		fmt.Fprintln(sh.out, "Usage: .columns [table_name]")
		return
	}
	cmdQuery(sh, fmt.Sprintf(
		"SELECT name, type, \"notnull\", dflt_value, pk FROM pragma_table_info(%s)",
		quoteLiteral(tableName),
	))
}

func cmdChanges(sh *Shell) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Database", "Total Changes"})
	tw.AppendRow(table.Row{sh.conn.Path(), numutil.IntWithCommas(sh.conn.TotalChanges())})
	fmt.Fprintln(sh.out, tw.Render())
}

func cmdCounters(sh *Shell) {
	if sh.lastStmt == nil || sh.lastStmt.IsClosed() {
		fmt.Fprintln(sh.out, "No query has been run yet")
		return
	}

	counters := sh.lastStmt.Counters()
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Counter", "Value"})
	for _, name := range names {
		tw.AppendRow(table.Row{name, numutil.IntWithCommas(counters[name])})
	}

	fmt.Fprintln(sh.out, tw.Render())
	styled.DimmedColor().Fprintf(sh.out, "%s\n", sh.lastStmt.SQL())
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
