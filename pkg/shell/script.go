package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/garrettyokley/termfolio/pkg/cli/term"
	"github.com/garrettyokley/termfolio/pkg/prog"
	"github.com/garrettyokley/termfolio/pkg/session"
	"github.com/garrettyokley/termfolio/pkg/ui"
)

// script runs a single command line. Input the command asks for, a sudo
// password or editor keys, is read from stdin one line at a time. The exit
// status is 1 when the command fails.
func script(ctx context.Context, fds [3]*os.File, s *session.Session, code string) error {
	upd := s.Exec(code)
	success := upd.Success
	present(ctx, fds[1], upd)

	in := bufio.NewReader(fds[0])
	for waitsForInput(s) {
		line, err := readLine(in)
		if err == io.EOF {
			if s.Mode() == session.AwaitingPassword {
				fmt.Fprintln(fds[2], "sudo: no password was provided")
				success = false
			}
			break
		} else if err != nil {
			return err
		}
		password := s.Mode() == session.AwaitingPassword
		upd := feedLine(s, line)
		if password {
			success = upd.Success
		}
		present(ctx, fds[1], upd)
	}
	if !success {
		return prog.Exit(1)
	}
	return nil
}

// lineMode runs a session on input that is not a terminal. Prompts go to
// stderr, so that stdout only carries the output of commands.
func lineMode(ctx context.Context, fds [3]*os.File, s *session.Session) error {
	writeLines(fds[1], s.Welcome())
	in := bufio.NewReader(fds[0])
	for {
		fmt.Fprint(fds[2], linePrompt(s))
		line, err := readLine(in)
		if err == io.EOF {
			fmt.Fprintln(fds[2])
			return nil
		} else if err != nil {
			return err
		}
		present(ctx, fds[1], feedLine(s, line))
		if s.Mode() == session.Bricked {
			return nil
		}
	}
}

func waitsForInput(s *session.Session) bool {
	m := s.Mode()
	return m == session.AwaitingPassword || m == session.EditorOpen
}

// feedLine submits a line of input. While an editor is open the line is
// decoded into keys and typed, followed by Enter; keys left after the editor
// closes are dropped.
func feedLine(s *session.Session, line string) session.Update {
	if s.Mode() != session.EditorOpen {
		return s.Exec(line)
	}
	var upd session.Update
	for _, k := range append(term.DecodeKeys(line), ui.K(ui.Enter)) {
		u := s.HandleKey(k)
		upd.Output = append(upd.Output, u.Output...)
		if s.Mode() != session.EditorOpen {
			break
		}
	}
	return upd
}

func linePrompt(s *session.Session) string {
	switch s.Mode() {
	case session.AwaitingPassword:
		return s.PasswordPrompt()
	case session.EditorOpen:
		v := s.Editor().View()
		return fmt.Sprintf("[%s %s] %s> ", v.Kind, v.Mode, v.Message)
	}
	return s.Prompt()
}

// readLine reads a line without its line ending. A last line without an
// ending is still returned without error.
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), err
}
