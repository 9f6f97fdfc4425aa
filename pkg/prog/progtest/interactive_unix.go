//go:build unix

package progtest

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/garrettyokley/termfolio/pkg/prog"
)

// How long WaitForOutput and Wait wait before failing the test.
var interactiveTimeout = 5 * time.Second

// Interactive is a program running on a pseudo terminal.
type Interactive struct {
	pty  *os.File
	exit chan int

	mu  sync.Mutex
	out bytes.Buffer
}

// StartInteractive runs p with the given arguments on a new pseudo terminal,
// which serves as its stdin, stdout and stderr. The test is skipped when no
// pseudo terminal can be opened.
func StartInteractive(t *testing.T, p prog.Program, args ...string) *Interactive {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	in := &Interactive{pty: ptmx, exit: make(chan int, 1)}
	go func() {
		in.exit <- prog.Run([3]*os.File{tty, tty, tty},
			append([]string{"termfolio"}, args...), p)
		tty.Close()
	}()
	go in.copyOutput()
	t.Cleanup(func() { ptmx.Close() })
	return in
}

func (in *Interactive) copyOutput() {
	buf := make([]byte, 1024)
	for {
		n, err := in.pty.Read(buf)
		in.mu.Lock()
		in.out.Write(buf[:n])
		in.mu.Unlock()
		if err != nil {
			return
		}
	}
}

// Type writes s to the terminal, as if typed.
func (in *Interactive) Type(s string) {
	in.pty.WriteString(s)
}

// Output returns everything the program has written so far.
func (in *Interactive) Output() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.out.String()
}

// WaitForOutput waits until the output of the program contains s.
func (in *Interactive) WaitForOutput(t *testing.T, s string) {
	t.Helper()
	deadline := time.Now().Add(interactiveTimeout)
	for !strings.Contains(in.Output(), s) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for output %q; got %q", s, in.Output())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Wait waits for the program to exit and returns its exit code.
func (in *Interactive) Wait(t *testing.T) int {
	t.Helper()
	select {
	case exit := <-in.exit:
		return exit
	case <-time.After(interactiveTimeout):
		t.Fatal("timed out waiting for the program to exit")
		return -1
	}
}
