// Package sysutil wraps operating system commands used by the shell.
package sysutil

import (
	"io"
	"os/exec"
	"runtime"
)

// clearCommand returns the command that clears the terminal on goos, or
// nil when goos has none.
func clearCommand(goos string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("cmd", "/c", "cls")
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		return exec.Command("clear")
	}
	return nil
}

// ClearTerminal clears the terminal screen writing to w in supported
// operating systems.
func ClearTerminal(w io.Writer) {
	cmd := clearCommand(runtime.GOOS)
	if cmd == nil {
		return
	}
	cmd.Stdout = w
	_ = cmd.Run()
}
