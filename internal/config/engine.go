package config

import (
	"fmt"
	"os"

	"github.com/nsqlite/sqlitebind/internal/sqlitec"
	"gopkg.in/yaml.v3"
)

// Engine holds the engine settings that can be read from a YAML file:
//
//	multithread: true
//	post_open:
//	  - PRAGMA journal_mode = WAL;
//	  - PRAGMA foreign_keys = ON;
//	checkpoint_pages: 1000
//	log_level: info
type Engine struct {
	// MultiThread enables multi-thread mode and the shared cache.
	MultiThread bool `yaml:"multithread"`
	// PostOpen replaces the queries run on every new connection.
	PostOpen []string `yaml:"post_open"`
	// CheckpointPages is the WAL size that makes the shell's WAL hook run a
	// checkpoint. 0 disables automatic checkpoints.
	CheckpointPages int    `yaml:"checkpoint_pages"`
	LogLevel        string `yaml:"log_level"`
}

// DefaultEngine returns the settings used when no file is given.
func DefaultEngine() Engine {
	return Engine{
		MultiThread:     true,
		PostOpen:        append([]string(nil), sqlitec.DefaultPostOpenQueries...),
		CheckpointPages: 1000,
		LogLevel:        "warn",
	}
}

// LoadEngine reads the engine settings from the YAML file at path. Keys
// missing from the file keep their default value.
func LoadEngine(path string) (Engine, error) {
	engine := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		return Engine{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &engine); err != nil {
		return Engine{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := engine.Validate(); err != nil {
		return Engine{}, fmt.Errorf("failed to validate config file: %w", err)
	}

	return engine, nil
}

// Validate checks every setting.
func (e Engine) Validate() error {
	if err := validateCheckpointPages(e.CheckpointPages); err != nil {
		return err
	}
	if err := validateLogLevel(e.LogLevel); err != nil {
		return err
	}
	return validatePostOpen(e.PostOpen)
}
