//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableVT switches the console into virtual terminal mode. The picker reads
// arrow keys as ANSI escape sequences from stdin and redraws the list with
// clear-screen sequences on stdout; PIN prompts go to stderr. Consoles that
// refuse a mode are left as they are and the picker falls back to the Windows
// scan codes it also understands.
func enableVT() {
	addConsoleMode(os.Stdin, windows.ENABLE_VIRTUAL_TERMINAL_INPUT)
	addConsoleMode(os.Stdout, windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	addConsoleMode(os.Stderr, windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}

// addConsoleMode sets flag on f's console mode. Redirected handles are not
// consoles and are skipped.
func addConsoleMode(f *os.File, flag uint32) {
	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil || mode&flag != 0 {
		return
	}
	_ = windows.SetConsoleMode(h, mode|flag)
}
