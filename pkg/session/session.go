// Package session implements a terminal session: the state that lives
// between command lines, and the routing of keystrokes to the command line,
// the sudo password prompt or an open editor.
//
// A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garrettyokley/termfolio/pkg/edit"
	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/histutil"
	"github.com/garrettyokley/termfolio/pkg/logutil"
	"github.com/garrettyokley/termfolio/pkg/metrics"
	"github.com/garrettyokley/termfolio/pkg/resume"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var logger = logutil.GetLogger("[session] ")

// MaxSudoAttempts is the number of wrong passwords after which a pending
// sudo command is dropped.
const MaxSudoAttempts = 3

// BrickDelay is how long front ends keep showing the output of a wiped
// filesystem before switching to the bricked screen.
const BrickDelay = 3 * time.Second

// Mode is the modal state of a session.
type Mode uint8

// Possible values of Mode.
const (
	Normal Mode = iota
	AwaitingPassword
	EditorOpen
	Bricked
)

var modeNames = [...]string{"normal", "password", "editor", "bricked"}

func (m Mode) String() string { return modeNames[m] }

// Config configures a new Session.
type Config struct {
	// Seed is the seed document. Defaults to the built-in one.
	Seed *vfs.Seed
	// Resume fetches the résumé text. When nil, it is read from the tree.
	Resume resume.Fetcher
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Update is what a front end needs to show after a key or a submitted line.
type Update struct {
	// Output lines to append to the log.
	Output []ui.Line
	// Navigate lists pages to open.
	Navigate []eval.Navigation
	// Deferred output to append after Output once available.
	Deferred *eval.Deferred
	// Clear asks for the log to be cleared before Output is appended.
	Clear bool
	// Bricked is set when the session has just reached the bricked state.
	Bricked bool
	// Success is the exit status of the last evaluated command line.
	Success bool
}

func (u *Update) add(lines ...ui.Line) { u.Output = append(u.Output, lines...) }

// Session is a terminal session.
type Session struct {
	ev      *eval.Evaler
	seed    *vfs.Seed
	started time.Time

	cwd  vfs.Path
	id   vfs.Identity
	mode Mode

	buf     edit.TextBuffer
	history *histutil.Store
	walk    *histutil.Cursor
	// The line being typed when history walking started.
	walkSaved string

	pending  *eval.PasswordRequest
	password edit.TextBuffer
	attempts int

	editor edit.Editor
}

// New creates a session on a fresh filesystem built from the seed.
func New(cfg Config) (*Session, error) {
	seed := cfg.Seed
	if seed == nil {
		var err error
		if seed, err = vfs.DefaultSeed(); err != nil {
			return nil, err
		}
	}
	if _, err := seed.Tree().Dir(seed.Home); err != nil {
		return nil, fmt.Errorf("home %s: %w", seed.Home, err)
	}
	ev := eval.NewEvaler(vfs.New(seed.Tree(), seed.Home), seed)
	ev.Resume = cfg.Resume
	if cfg.Now != nil {
		ev.Now = cfg.Now
	}
	s := &Session{
		ev: ev, seed: seed, started: ev.Now(),
		cwd: seed.Home.Join(), id: vfs.Identity{User: seed.User},
		history: histutil.NewStore(),
	}
	ev.AddCommand("history", eval.CommandFunc(s.historyCmd))
	metrics.SessionStarted()
	logger.Infow("session started", "user", seed.User, "host", seed.Hostname)
	return s, nil
}

// Close ends the session.
func (s *Session) Close() {
	metrics.SessionEnded()
	logger.Infow("session ended", "commands", s.history.Len(),
		"duration", s.ev.Now().Sub(s.started).String())
}

// Evaler returns the interpreter of the session.
func (s *Session) Evaler() *eval.Evaler { return s.ev }

// Mode returns the modal state.
func (s *Session) Mode() Mode { return s.mode }

// Cwd returns the working path.
func (s *Session) Cwd() vfs.Path { return s.cwd }

// Identity returns the acting identity.
func (s *Session) Identity() vfs.Identity { return s.id }

// Buffer returns the command line being typed. In the password mode the
// buffer is empty; the password is never exposed.
func (s *Session) Buffer() edit.TextBuffer {
	if s.mode == Normal {
		return s.buf
	}
	return edit.TextBuffer{}
}

// Editor returns the open editor, or nil.
func (s *Session) Editor() edit.Editor { return s.editor }

// History returns the command history.
func (s *Session) History() []histutil.Cmd { return s.history.All() }

// Welcome returns the lines shown when the session starts: the welcome
// banner with the login time, followed by the message of the day as if
// "cat /etc/motd" had been typed.
func (s *Session) Welcome() []ui.Line {
	var lines []ui.Line
	for _, l := range strings.Split(s.seed.Welcome, "\n") {
		lines = append(lines, ui.Plain(l))
	}
	now := s.started
	lines = append(lines, ui.Plain(fmt.Sprintf("Last login: %s on %s",
		now.Format("3:04:05 PM"), now.Format("1/2/2006"))))
	lines = append(lines, s.echo("cat /etc/motd"))
	if n, err := s.ev.FS.Snapshot().Lookup(vfs.Path{"etc", "motd"}); err == nil && !n.IsDir() {
		for _, l := range strings.Split(n.Content(), "\n") {
			lines = append(lines, ui.Plain(l))
		}
	}
	return lines
}

// Prompt returns the prompt, such as "garrettyokley@portfolio-site:~$ ".
func (s *Session) Prompt() string { return s.PromptText().Plain() }

// PromptText returns the prompt with styles.
func (s *Session) PromptText() ui.Text {
	return ui.T(s.id.Name()+"@"+s.seed.Hostname, ui.FgGreen, ui.Bold).Concat(
		ui.T(":", ui.FgWhite),
		ui.T(s.cwd.Abbrev(s.seed.Home), ui.FgBlue, ui.Bold),
		ui.T("$ ", ui.FgWhite))
}

// PasswordPrompt returns the prompt shown while a sudo password is awaited.
func (s *Session) PasswordPrompt() string {
	return "[sudo] password for " + s.id.Name() + ": "
}

// echo returns the log line of a submitted command line.
func (s *Session) echo(line string) ui.Line {
	return ui.Line{Kind: ui.NormalLine, Text: s.PromptText().Concat(ui.T(line, ui.FgWhite))}
}

// HandleKey handles one keystroke.
func (s *Session) HandleKey(k ui.Key) Update {
	switch s.mode {
	case EditorOpen:
		return s.editorKey(k)
	case AwaitingPassword:
		return s.passwordKey(k)
	case Bricked:
		return Update{}
	}
	return s.lineKey(k)
}

// Submit evaluates a command line as if it had been typed and entered.
func (s *Session) Submit(line string) Update { return s.submit(line, true) }

// Exec is like Submit, but the command line is not echoed in the output.
func (s *Session) Exec(line string) Update { return s.submit(line, false) }

func (s *Session) submit(line string, echo bool) Update {
	switch s.mode {
	case Bricked:
		return Update{}
	case AwaitingPassword:
		return s.checkPassword(line)
	case EditorOpen:
		// The line is dropped while an editor has the keyboard.
		return Update{}
	}
	s.buf, s.walk = edit.TextBuffer{}, nil
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		s.history.Add(trimmed)
	}
	upd := Update{}
	if echo {
		upd.add(s.echo(line))
	}
	res := s.ev.Eval(strings.TrimSpace(line), eval.Frame{Cwd: s.cwd, ID: s.id})
	s.apply(res, &upd)
	return upd
}

// apply advances the session by the result of an evaluation.
func (s *Session) apply(res eval.Result, upd *Update) {
	if res.Clear {
		upd.Output = nil
		upd.Clear = true
	}
	upd.add(res.Output...)
	upd.Navigate = append(upd.Navigate, res.Navigate...)
	upd.Deferred = res.Deferred
	upd.Success = res.Success
	if res.NewPath != nil {
		s.cwd = res.NewPath
	}
	s.cwd = s.ev.FS.Snapshot().Nearest(s.cwd)
	if res.Identity != nil {
		s.id = *res.Identity
	}
	switch {
	case res.Bricked:
		s.mode = Bricked
		s.cwd = vfs.Path{}
		upd.Bricked = true
		logger.Infow("filesystem wiped", "user", s.id.Name())
	case res.Password != nil:
		s.mode, s.pending, s.attempts = AwaitingPassword, res.Password, 0
		s.password = edit.TextBuffer{}
	case res.Editor != nil:
		s.mode = EditorOpen
		s.editor = edit.Open(res.Editor, s.save)
	}
}

// save is the save operation of the editors: it updates the file, and
// creates it when the update fails.
func (s *Session) save(dir vfs.Path, name, content string) error {
	err := s.ev.FS.UpdateFileContent(s.id, dir, name, content)
	if err != nil {
		err = s.ev.FS.CreateFile(s.id, dir, name, content, vfs.DefaultFilePerm)
	}
	return err
}

func (s *Session) lineKey(k ui.Key) Update {
	switch k {
	case ui.K(ui.Enter):
		return s.Submit(s.buf.Content)
	case ui.K(ui.Tab):
		return s.tabComplete()
	case ui.K(ui.Up):
		s.historyPrev()
	case ui.K(ui.Down):
		s.historyNext()
	case ui.K(ui.Backspace), ui.K('H', ui.Ctrl):
		s.buf = s.buf.Backspace()
	case ui.K(ui.Delete):
		s.buf = s.buf.Delete()
	case ui.K(ui.Left), ui.K('B', ui.Ctrl):
		s.buf = s.buf.Left()
	case ui.K(ui.Right), ui.K('F', ui.Ctrl):
		s.buf = s.buf.Right()
	case ui.K(ui.Home), ui.K('A', ui.Ctrl):
		s.buf = s.buf.Home()
	case ui.K(ui.End), ui.K('E', ui.Ctrl):
		s.buf = s.buf.End()
	case ui.K('U', ui.Ctrl):
		s.buf = edit.TextBuffer{}
	case ui.K('C', ui.Ctrl):
		line := s.buf.Content
		s.buf, s.walk = edit.TextBuffer{}, nil
		return Update{Output: []ui.Line{s.echo(line + "^C")}}
	case ui.K('L', ui.Ctrl):
		return Update{Clear: true}
	default:
		if k.IsPrintable() {
			s.buf = s.buf.InsertAtDot(string(k.Rune))
		}
	}
	return Update{}
}

// historyPrev recalls the previous history entry. At the oldest entry it
// stays there.
func (s *Session) historyPrev() {
	if s.walk == nil {
		s.walk = s.history.Cursor("")
		s.walkSaved = s.buf.Content
	}
	s.walk.Prev()
	cmd, err := s.walk.Get()
	if errors.Is(err, histutil.ErrEndOfHistory) {
		s.walk.Next()
		if cmd, err = s.walk.Get(); err != nil {
			return
		}
	}
	s.buf = edit.Set(cmd.Text)
}

// historyNext recalls the next history entry. Past the newest entry it
// restores the line being typed before the walk started.
func (s *Session) historyNext() {
	if s.walk == nil {
		return
	}
	s.walk.Next()
	cmd, err := s.walk.Get()
	if err != nil {
		s.buf, s.walk = edit.Set(s.walkSaved), nil
		return
	}
	s.buf = edit.Set(cmd.Text)
}

func (s *Session) historyCmd(fm *eval.Frame, args []string) eval.Result {
	res := eval.Result{Success: true}
	for _, cmd := range s.history.All() {
		res.Output = append(res.Output, ui.Plain(fmt.Sprintf("%5d  %s", cmd.Seq+1, cmd.Text)))
	}
	return res
}

// BrickedScreen returns the screen front ends show once the session is
// bricked, in place of the terminal.
func BrickedScreen() []ui.Line {
	return []ui.Line{
		ui.Styled("[ TempleOS ]", ui.FgBrightRed, ui.Bold),
		ui.Plain(""),
		ui.Styled("WHY DID YOU DO THAT!", ui.FgRed, ui.Bold),
	}
}
