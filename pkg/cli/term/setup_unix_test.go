//go:build unix

package term

import (
	"testing"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/garrettyokley/termfolio/pkg/must"
	"github.com/garrettyokley/termfolio/pkg/ui"
)

func TestSetup(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	fd := int(tty.Fd())

	restore, err := Setup(tty)
	if err != nil {
		t.Fatal("Setup:", err)
	}
	raw := must.OK1(unix.IoctlGetTermios(fd, ioctlGetTermios))
	if raw.Lflag&(unix.ICANON|unix.ECHO|unix.ISIG) != 0 {
		t.Errorf("canonical mode, echo or signals still on after Setup")
	}

	must.OK(restore())
	cooked := must.OK1(unix.IoctlGetTermios(fd, ioctlGetTermios))
	if cooked.Lflag&unix.ICANON == 0 {
		t.Errorf("canonical mode not restored")
	}
}

func TestSetup_NotATerminal(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	if _, err := Setup(r); err == nil {
		t.Errorf("Setup of a pipe succeeded")
	}
}

func TestReader(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	restore := must.OK1(Setup(tty))
	defer restore()

	rd := must.OK1(NewReader(tty))
	ptmx.WriteString("\x1b[A")
	k, err := rd.ReadKey()
	if err != nil || k != ui.K(ui.Up) {
		t.Errorf("ReadKey -> (%v, %v), want Up", k, err)
	}

	done := make(chan error)
	go func() {
		_, err := rd.ReadKey()
		done <- err
	}()
	rd.Close()
	if err := <-done; err != ErrStopped {
		t.Errorf("ReadKey after Close -> %v, want ErrStopped", err)
	}
}
