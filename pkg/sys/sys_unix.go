//go:build unix

// Package sys wraps the system calls the interactive front end needs to
// size the screen and follow signals.
package sys

import (
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Signals relayed by NotifySignals. SIGWINCH asks for a redraw; the others
// end the session.
var Signals = []os.Signal{unix.SIGHUP, unix.SIGINT, unix.SIGTERM, unix.SIGWINCH}

// NotifySignals relays Signals to a new channel until signal.Stop is called
// on it.
func NotifySignals() chan os.Signal {
	ch := make(chan os.Signal, len(Signals)*4)
	signal.Notify(ch, Signals...)
	return ch
}

// IsATTY reports whether fd is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WinSize returns the size of the terminal f. Sizes that cannot be read, or
// read as zero, fall back to 24 rows and 80 columns.
func WinSize(f *os.File) (rows, cols int) {
	rows, cols = 24, 80
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return rows, cols
	}
	if ws.Row > 0 {
		rows = int(ws.Row)
	}
	if ws.Col > 0 {
		cols = int(ws.Col)
	}
	return rows, cols
}
