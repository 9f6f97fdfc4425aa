//go:build unix

package shell

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// handleSignal handles a signal received while interacting with a terminal.
// It reports whether the session should end.
func handleSignal(sig os.Signal, t *tty) bool {
	s, _ := sig.(syscall.Signal)
	logger.Debugw("signal", "name", unix.SignalName(s))
	switch s {
	case syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT:
		return true
	case unix.SIGWINCH:
		t.redraw()
	}
	return false
}
