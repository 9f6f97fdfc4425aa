package session

import (
	"strings"

	"github.com/garrettyokley/termfolio/pkg/edit"
	"github.com/garrettyokley/termfolio/pkg/edit/complete"
	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/metrics"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

// tabComplete runs tab completion on the command line. A single candidate is
// inserted; several are listed.
func (s *Session) tabComplete() Update {
	res, err := complete.Complete(s.buf.Content, s.cwd, s.ev)
	if err != nil {
		if !complete.IsNoCompletion(err) {
			logger.Warnw("completion failed", "err", err)
		}
		return Update{}
	}
	if len(res.Items) == 1 {
		s.buf = res.Buffer
		return Update{}
	}
	return Update{Output: []ui.Line{ui.Plain(strings.Join(res.Items, "  "))}}
}

// Completions returns the candidates for the command line without applying
// them.
func (s *Session) Completions() []string {
	res, err := complete.Complete(s.buf.Content, s.cwd, s.ev)
	if err != nil {
		return nil
	}
	return res.Items
}

func (s *Session) passwordKey(k ui.Key) Update {
	switch k {
	case ui.K(ui.Enter):
		pw := s.password.Content
		s.password = edit.TextBuffer{}
		return s.checkPassword(pw)
	case ui.K(ui.Backspace), ui.K('H', ui.Ctrl):
		s.password = s.password.Backspace()
	case ui.K('C', ui.Ctrl):
		s.mode, s.pending, s.password = Normal, nil, edit.TextBuffer{}
		return Update{Output: []ui.Line{ui.Plain("^C")}}
	default:
		if k.IsPrintable() {
			s.password = s.password.InsertAtDot(string(k.Rune))
		}
	}
	return Update{}
}

// checkPassword handles an entered sudo password. The right password runs
// the pending command as root, in the directory sudo was typed in.
func (s *Session) checkPassword(pw string) Update {
	upd := Update{}
	upd.add(ui.Styled(s.PasswordPrompt(), ui.FgYellow))
	if !s.seed.CheckPassword(pw) {
		metrics.RecordSudoAttempt(false)
		s.attempts++
		upd.add(ui.Error("Sorry, try again."))
		if s.attempts >= MaxSudoAttempts {
			upd.add(ui.Error("sudo: 3 incorrect password attempts"))
			logger.Infow("sudo gave up", "command", s.pending.Command)
			s.mode, s.pending, s.attempts = Normal, nil, 0
		}
		return upd
	}
	metrics.RecordSudoAttempt(true)
	pending := s.pending
	s.mode, s.pending, s.attempts = Normal, nil, 0
	logger.Infow("sudo", "user", s.id.User, "command", pending.Command)

	saved := s.id
	res := s.ev.Eval(pending.Command, eval.Frame{
		Cwd: pending.Path, ID: vfs.Identity{User: saved.User, Root: true}})
	res.Identity = nil
	s.apply(res, &upd)
	s.id = saved
	return upd
}

func (s *Session) editorKey(k ui.Key) Update {
	r := s.editor.HandleKey(k)
	if !r.Closed {
		return Update{}
	}
	s.mode, s.editor = Normal, nil
	if r.Info == "" {
		return Update{}
	}
	return Update{Output: []ui.Line{ui.Info(r.Info)}}
}
