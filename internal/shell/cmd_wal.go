package shell

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
	"github.com/nsqlite/sqlitebind/internal/styled"
	"github.com/nsqlite/sqlitebind/internal/util/numutil"
)

type walStats struct {
	threshold      int
	commits        int
	lastPages      int
	checkpoints    int
	lastCheckpoint sqlitec.CheckpointResult
}

// installWALHook counts the commits of the connection and, when threshold
// is positive, checkpoints the log once it holds at least threshold pages.
func (sh *Shell) installWALHook(threshold int) {
	sh.wal = walStats{threshold: threshold}

	sh.conn.WALHook(func(dbName string, pages int) any {
		sh.wal.commits++
		sh.wal.lastPages = pages

		if threshold <= 0 || pages < threshold {
			return sqlitec.SQLITE_OK
		}

		res, err := sh.conn.WALCheckpoint(dbName)
		if err != nil {
			sh.logger.WarnNs(log.NsWAL, "automatic checkpoint failed", log.KV{
				"db":    dbName,
				"error": err.Error(),
			})
			return sqlitec.SQLITE_OK
		}

		sh.wal.checkpoints++
		sh.wal.lastCheckpoint = res
		sh.logger.DebugNs(log.NsWAL, "automatic checkpoint", log.KV{
			"db":           dbName,
			"pages":        pages,
			"logFrames":    res.LogFrames,
			"checkpointed": res.CheckpointedFrames,
		})
		return true
	})
}

func cmdCheckpoint(sh *Shell, dbName string) {
	res, err := sh.conn.WALCheckpoint(dbName)
	if err != nil {
		printError(sh, err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Result", "Log Frames", "Checkpointed Frames"})
	tw.AppendRow(table.Row{
		res.Code.String(),
		numutil.IntWithCommas(res.LogFrames),
		numutil.IntWithCommas(res.CheckpointedFrames),
	})
	fmt.Fprintln(sh.out, tw.Render())
}

func cmdWALHook(sh *Shell) {
	threshold := "disabled"
	if sh.wal.threshold > 0 {
		threshold = numutil.IntWithCommas(sh.wal.threshold) + " pages"
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Commits", "Last WAL Pages", "Auto Checkpoints", "Threshold"})
	tw.AppendRow(table.Row{
		numutil.IntWithCommas(sh.wal.commits),
		numutil.IntWithCommas(sh.wal.lastPages),
		numutil.IntWithCommas(sh.wal.checkpoints),
		threshold,
	})
	fmt.Fprintln(sh.out, tw.Render())
}
