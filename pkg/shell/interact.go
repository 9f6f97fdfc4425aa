package shell

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/garrettyokley/termfolio/pkg/cli/term"
	"github.com/garrettyokley/termfolio/pkg/session"
	"github.com/garrettyokley/termfolio/pkg/sys"
	"github.com/garrettyokley/termfolio/pkg/ui"
)

// interact runs a session on a terminal in raw mode. Ctrl-D on an empty
// command line, or at any time once bricked, ends the session.
func interact(ctx context.Context, fds [3]*os.File, s *session.Session) error {
	restore, err := term.Setup(fds[0])
	if err != nil {
		return err
	}
	defer restore()
	rd, err := term.NewReader(fds[0])
	if err != nil {
		return err
	}
	defer rd.Close()

	sigCh := sys.NotifySignals()
	defer signal.Stop(sigCh)

	keys := make(chan ui.Key)
	readErr := make(chan error, 1)
	go readKeys(ctx, rd, keys, readErr)

	t := &tty{w: term.NewWriter(fds[1]), out: fds[1], s: s}
	t.check(t.w.WriteLines(s.Welcome()))
	t.redraw()
	for {
		select {
		case k := <-keys:
			if k == ui.K('D', ui.Ctrl) && t.canLogout() {
				t.check(t.w.WriteLines([]ui.Line{ui.Plain("logout")}))
				return nil
			}
			t.show(ctx, s.HandleKey(k))
		case sig := <-sigCh:
			if handleSignal(sig, t) {
				return nil
			}
		case err := <-readErr:
			if errors.Is(err, term.ErrStopped) {
				return nil
			}
			return err
		}
	}
}

func readKeys(ctx context.Context, rd *term.Reader, keys chan<- ui.Key, errCh chan<- error) {
	for {
		k, err := rd.ReadKey()
		if err != nil {
			if term.IsReadErrorRecoverable(err) {
				logger.Debugw("bad key sequence", "err", err)
				continue
			}
			errCh <- err
			return
		}
		select {
		case keys <- k:
		case <-ctx.Done():
			return
		}
	}
}

// tty draws a session on a terminal.
type tty struct {
	w   *term.Writer
	out *os.File
	s   *session.Session
	// Whether the screen currently shows an editor.
	editing bool
}

func (t *tty) check(err error) {
	if err != nil {
		logger.Warnw("cannot write to terminal", "err", err)
	}
}

func (t *tty) canLogout() bool {
	switch t.s.Mode() {
	case session.Bricked:
		return true
	case session.Normal:
		return t.s.Buffer().Content == ""
	}
	return false
}

// show writes the output of an update and redraws the input area.
func (t *tty) show(ctx context.Context, upd session.Update) {
	if t.editing && t.s.Mode() != session.EditorOpen {
		t.editing = false
		t.check(t.w.ClearScreen())
	}
	if upd.Clear {
		t.check(t.w.ClearScreen())
	}
	t.check(t.w.WriteLines(upd.Output))
	t.check(t.w.WriteLines(navLines(upd.Navigate)))
	if upd.Deferred != nil {
		t.check(t.w.WriteLines(upd.Deferred.Await(ctx)))
	}
	if upd.Bricked {
		sleep(ctx, brickDelay)
	}
	t.redraw()
}

// redraw draws the part of the screen that depends on the modal state.
func (t *tty) redraw() {
	switch t.s.Mode() {
	case session.EditorOpen:
		t.editing = true
		height, _ := sys.WinSize(t.out)
		e := t.s.Editor()
		lines := e.Render(height)
		rows := make([]ui.Text, len(lines))
		for i, l := range lines {
			rows[i] = l.Text
		}
		row, col := e.Cursor(height)
		t.check(t.w.DrawScreen(rows, row, col))
	case session.AwaitingPassword:
		t.check(t.w.DrawInputLine(ui.T(t.s.PasswordPrompt(), ui.FgYellow), "", 0, true))
	case session.Bricked:
		screen := session.BrickedScreen()
		rows := make([]ui.Text, len(screen))
		for i, l := range screen {
			rows[i] = l.Text
		}
		t.check(t.w.DrawScreen(rows, len(rows), 0))
	default:
		buf := t.s.Buffer()
		t.check(t.w.DrawInputLine(t.s.PromptText(), buf.Content, buf.Dot, false))
	}
}
