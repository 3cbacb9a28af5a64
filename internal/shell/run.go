package shell

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsqlite/sqlitebind/internal/config"
	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/version"
)

// Run runs the interactive shell.
func Run(ctx context.Context, conf config.Config, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.CLIVersion())

	sh, err := New(ctx, stop, conf, logger, os.Stdout)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sh.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()

	// The connection belongs to the shell goroutine, it is only closed
	// here once that goroutine has returned. A signal leaves it blocked in
	// the prompt.
	select {
	case <-done:
		if err := sh.Close(); err != nil {
			logger.ErrorNs(log.NsShell, "failed to close database", log.KV{"error": err.Error()})
		}
	case <-time.After(100 * time.Millisecond):
	}

	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
