package version

import (
	"fmt"

	"github.com/fatih/color"
)

const Version = "v0.1.0"

// asciiArtTpl returns the ASCII art of sqlitebind.
func asciiArtTpl() string {
	asciiArt := `
           _ _ _       _     _           _
  ___  __ _| (_) |_ ___| |__ (_)_ __   __| |
 / __|/ _' | | | __/ _ \ '_ \| | '_ \ / _' |
 \__ \ (_| | | | ||  __/ |_) | | | | | (_| |
 |___/\__, |_|_|\__\___|_.__/|_|_| |_|\__,_|
         |_|
%s ` + Version + `
SQLite bindings with shared-cache unlock notification and WAL hooks`

	asciiArt = asciiArt[1:] // This just removes the first newline character
	return color.New(color.FgCyan, color.Bold).Sprint(asciiArt)
}

// CLIVersion returns the version banner of the sqlitebind command.
func CLIVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CLI")
}
