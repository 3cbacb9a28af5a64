// Package shell implements the interactive SQL shell of sqlitebind.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsqlite/sqlitebind/internal/config"
	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
	"github.com/nsqlite/sqlitebind/internal/util/sysutil"
	"github.com/peterh/liner"
)

// Shell is an interactive session on one database connection. The
// connection is only used from the goroutine running Start or Exec.
type Shell struct {
	conf        config.Config
	conn        *sqlitec.Conn
	logger      log.Logger
	out         io.Writer
	ctx         context.Context
	stop        context.CancelFunc
	historyPath string

	// lastStmt is the statement of the last query, kept for .counters.
	lastStmt *sqlitec.Stmt
	wal      walStats
}

// New opens the database of the shell subcommand and returns a shell
// writing to out.
func New(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	logger log.Logger,
	out io.Writer,
) (*Shell, error) {
	conn, err := sqlitec.Open(
		conf.Shell.Database,
		sqlitec.WithLogger(logger),
		sqlitec.WithPostOpenQueries(conf.Engine.PostOpen),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", conf.Shell.Database, err)
	}

	sh := &Shell{
		conf:        conf,
		conn:        conn,
		logger:      logger,
		out:         out,
		ctx:         ctx,
		stop:        stop,
		historyPath: filepath.Join(os.TempDir(), ".sqlitebind_history"),
	}
	sh.installWALHook(conf.Engine.CheckpointPages)

	return sh, nil
}

// Start reads commands from the terminal until the user quits or the
// context is done.
func (sh *Shell) Start() error {
	fmt.Fprintln(sh.out)
	fmt.Fprintf(sh.out, "Connected to %s\n", sh.conf.Shell.Database)
	fmt.Fprintln(sh.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(sh.out)

	for {
		select {
		case <-sh.ctx.Done():
			return nil
		default:
			input := sh.prompt()
			if quit := sh.Exec(input); quit {
				sh.Shutdown()
				return nil
			}
		}
	}
}

// Exec runs one line of input, a dot command or SQL. It returns true when
// the input asks to quit.
func (sh *Shell) Exec(input string) (quit bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "exit", ".exit", ".quit":
		return true
	case "clear", ".clear":
		sysutil.ClearTerminal(sh.out)
	case "help", ".help":
		cmdHelp(sh)
	case ".tables":
		cmdQuery(sh, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	case ".indexes":
		cmdQuery(sh, "SELECT name, tbl_name FROM sqlite_master WHERE type = 'index' ORDER BY name")
	case ".schema":
		cmdQuery(sh, "SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY name")
	case ".count":
		cmdCount(sh, arg)
	case ".columns":
		cmdColumns(sh, arg)
	case ".changes":
		cmdChanges(sh)
	case ".counters":
		cmdCounters(sh)
	case ".checkpoint":
		cmdCheckpoint(sh, arg)
	case ".walhook":
		cmdWALHook(sh)
	default:
		if strings.HasPrefix(input, ".") {
			fmt.Fprintln(sh.out, "Unknown command, type .help for usage hints")
			return false
		}
		cmdQuery(sh, input)
	}

	return false
}

// Shutdown stops the shell.
func (sh *Shell) Shutdown() {
	sh.stop()
}

// Close closes the connection of the shell.
func (sh *Shell) Close() error {
	return sh.conn.Close()
}

// setLastStmt replaces the statement kept for .counters.
func (sh *Shell) setLastStmt(stmt *sqlitec.Stmt) {
	if sh.lastStmt != nil {
		_ = sh.lastStmt.Close()
	}
	sh.lastStmt = stmt
}

// prompt shows the prompt and reads the input from the user.
func (sh *Shell) prompt() string {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(sh.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	prompt, err := line.Prompt("sqlitebind> ")
	if err != nil {
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(sh.out, "CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(prompt)
	if file, err := os.Create(sh.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(prompt)
}
