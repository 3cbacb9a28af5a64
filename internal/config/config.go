// Package config holds the command line configuration of sqlitebind and the
// optional YAML file with engine settings.
package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/alexflint/go-arg"
	sbLog "github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/version"
)

// Config represents the configuration for sqlitebind.
type Config struct {
	ConfigFile string    `arg:"--config,env:SQLITEBIND_CONFIG" help:"YAML file with engine settings (multithread, post_open, checkpoint_pages, log_level)"`
	LogLevel   *string   `arg:"--log-level,env:SQLITEBIND_LOG_LEVEL" help:"Log level: debug, info, warn or error (default warn)"`
	Shell      *ShellCmd `arg:"subcommand:shell" help:"Open an interactive SQL shell on a database file"`
	Bench      *BenchCmd `arg:"subcommand:bench" help:"Run the shared-cache contention benchmark"`

	// Engine is resolved from the file, the defaults and the flags.
	Engine Engine `arg:"-"`
}

// ShellCmd holds the arguments of the shell subcommand.
type ShellCmd struct {
	Database        string `arg:"positional" help:"Path or URI filename of the database" default:":memory:"`
	CheckpointPages *int   `arg:"--checkpoint-pages" help:"Checkpoint from the WAL hook once the log holds this many pages, 0 disables automatic checkpoints (default 1000)"`
}

// BenchCmd holds the arguments of the bench subcommand.
type BenchCmd struct {
	Directory string `arg:"--directory" help:"Directory for the benchmark databases, a temporary one by default"`
	Writers   int    `arg:"--writers" help:"Goroutines inserting rows, each on its own connection" default:"4"`
	Readers   int    `arg:"--readers" help:"Goroutines reading rows, each on its own connection" default:"4"`
	Inserts   int    `arg:"--inserts" help:"Rows inserted by every writer" default:"1000"`
	Reads     int    `arg:"--reads" help:"Queries run by every reader" default:"1000"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sqlitebind"},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if cfg.Shell == nil && cfg.Bench == nil {
		parser.Fail("missing subcommand, use shell or bench")
	}

	if err := cfg.resolve(); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// resolve builds cfg.Engine from the defaults, the config file and the
// flags, in that order, and validates the result.
func (cfg *Config) resolve() error {
	engine := DefaultEngine()
	if cfg.ConfigFile != "" {
		loaded, err := LoadEngine(cfg.ConfigFile)
		if err != nil {
			return err
		}
		engine = loaded
	}

	if cfg.LogLevel != nil {
		engine.LogLevel = *cfg.LogLevel
	}
	if cfg.Shell != nil && cfg.Shell.CheckpointPages != nil {
		engine.CheckpointPages = *cfg.Shell.CheckpointPages
	}

	if err := engine.Validate(); err != nil {
		return err
	}
	if cfg.Bench != nil {
		if err := validateBench(cfg.Bench); err != nil {
			return err
		}
	}

	cfg.Engine = engine
	return nil
}

// SlogLevel returns the parsed log level.
func (cfg Config) SlogLevel() slog.Level {
	level, _ := sbLog.ParseLevel(cfg.Engine.LogLevel)
	return level
}

// validateCheckpointPages validates if pages is not negative.
func validateCheckpointPages(pages int) error {
	if pages < 0 {
		return errors.New("invalid checkpoint pages, must be zero or greater")
	}
	return nil
}

// validateLogLevel validates if level is a known log level.
func validateLogLevel(level string) error {
	if _, err := sbLog.ParseLevel(level); err != nil {
		return fmt.Errorf(
			"invalid log level, valid values are: %s",
			strings.Join([]string{"debug", "info", "warn", "error"}, ", "),
		)
	}
	return nil
}

// validatePostOpen validates if every post-open query has some text.
func validatePostOpen(queries []string) error {
	for i, query := range queries {
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("invalid post_open query %d, must not be empty", i+1)
		}
	}
	return nil
}

// validateBench validates the benchmark sizes.
func validateBench(bench *BenchCmd) error {
	if bench.Writers < 1 {
		return errors.New("invalid writers, must be at least 1")
	}
	if bench.Readers < 0 {
		return errors.New("invalid readers, must be zero or greater")
	}
	if bench.Inserts < 1 {
		return errors.New("invalid inserts, must be at least 1")
	}
	if bench.Reads < 0 {
		return errors.New("invalid reads, must be zero or greater")
	}
	return nil
}
