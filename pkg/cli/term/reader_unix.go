//go:build unix

package term

import (
	"errors"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

// ErrStopped is returned by ReadKey when the Reader is closed while it waits.
var ErrStopped = errors.New("stopped")

// Reader reads keys from a terminal in raw mode.
type Reader struct {
	file *os.File
	// Close writes to stopW to wake up a pending poll.
	stopR, stopW *os.File
	// Held by ReadKey, and by Close when setting stopped.
	reading sync.Mutex
	stopped bool
}

// NewReader returns a Reader of the terminal f.
func NewReader(f *os.File) (*Reader, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, stopR: r, stopW: w}, nil
}

// ReadKey blocks until a key is typed. Errors for malformed escape sequences
// satisfy IsReadErrorRecoverable.
func (rd *Reader) ReadKey() (ui.Key, error) {
	rd.reading.Lock()
	defer rd.reading.Unlock()
	if rd.stopped {
		return ui.Key{}, ErrStopped
	}
	return (&decoder{src: rd}).key()
}

// Close aborts a pending ReadKey and releases the stop pipe. The terminal
// itself stays open.
func (rd *Reader) Close() {
	rd.stopW.Write([]byte{0})
	rd.reading.Lock()
	defer rd.reading.Unlock()
	rd.stopped = true
	rd.stopR.Close()
	rd.stopW.Close()
}

func (rd *Reader) readByte(timeout time.Duration) (byte, error) {
	fds := []unix.PollFd{
		{Fd: int32(rd.file.Fd()), Events: unix.POLLIN},
		{Fd: int32(rd.stopR.Fd()), Events: unix.POLLIN},
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}
	n, err := unix.Poll(fds, ms)
	for err == unix.EINTR {
		n, err = unix.Poll(fds, ms)
	}
	switch {
	case err != nil:
		return 0, err
	case fds[1].Revents != 0:
		return 0, ErrStopped
	case n == 0:
		return 0, errTimeout
	}
	var b [1]byte
	if _, err := rd.file.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
