package main

import (
	"context"
	"log"
	"os"

	"github.com/nsqlite/sqlitebind/internal/bench"
	"github.com/nsqlite/sqlitebind/internal/config"
	sbLog "github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/shell"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
)

func main() {
	conf := config.MustParse(os.Args)

	if err := run(context.Background(), conf); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, conf config.Config) error {
	if conf.Engine.MultiThread {
		if err := sqlitec.Config(sqlitec.ConfigMultiThread); err != nil {
			return err
		}
	}

	logger := sbLog.NewLogger(os.Stderr, conf.SlogLevel())

	if conf.Bench != nil {
		return bench.Run(ctx, conf, logger)
	}
	return shell.Run(ctx, conf, logger)
}
