// Package eval implements the command interpreter of the terminal: alias
// expansion, "&&" chains and dispatch to the builtin commands, which operate
// on a virtual filesystem.
//
// Evaluation is synchronous. The only operation that has to wait on the
// outside world, fetching the résumé text, is returned as a Deferred for the
// caller to await.
package eval

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/garrettyokley/termfolio/pkg/logutil"
	"github.com/garrettyokley/termfolio/pkg/metrics"
	"github.com/garrettyokley/termfolio/pkg/resume"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var logger = logutil.GetLogger("[eval] ")

// ChainSeparator separates the commands of a chain.
const ChainSeparator = " && "

// Command is a builtin command.
type Command interface {
	Call(fm *Frame, args []string) Result
}

// CommandFunc adapts a function to a Command.
type CommandFunc func(fm *Frame, args []string) Result

// Call implements Command.
func (f CommandFunc) Call(fm *Frame, args []string) Result { return f(fm, args) }

// Evaler evaluates command lines. It holds the state shared by all
// evaluations of a session.
type Evaler struct {
	FS   *vfs.FS
	Seed *vfs.Seed
	// Resume fetches the résumé text. When nil, the text is read from the
	// résumé file in the home Documents directory of the current tree.
	Resume resume.Fetcher
	// Now returns the current time, for date and the login banner.
	Now func() time.Time

	commands map[string]Command
}

// NewEvaler returns an Evaler with all builtin commands, operating on fs.
func NewEvaler(fs *vfs.FS, seed *vfs.Seed) *Evaler {
	ev := &Evaler{FS: fs, Seed: seed, Now: time.Now, commands: map[string]Command{}}
	for _, m := range []map[string]CommandFunc{
		navCommands, fsCommands, openCommands, portfolioCommands,
		sysCommands, editCommands,
	} {
		for name, f := range m {
			ev.commands[name] = f
		}
	}
	ev.commands["help"] = CommandFunc(help)
	return ev
}

// AddCommand adds or replaces a builtin command.
func (ev *Evaler) AddCommand(name string, c Command) {
	ev.commands[strings.ToLower(name)] = c
}

// CommandNames returns the names of all builtin commands, sorted.
func (ev *Evaler) CommandNames() []string {
	names := make([]string, 0, len(ev.commands))
	for name := range ev.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var aliases = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`^ll\b`), "ls -alF"},
	{regexp.MustCompile(`^la\b`), "ls -A"},
	{regexp.MustCompile(`^l\b`), "ls -CF"},
}

// AliasNames are the names that are expanded before dispatch.
var AliasNames = []string{"l", "la", "ll"}

// ExpandAliases replaces a leading alias with its expansion.
func ExpandAliases(line string) string {
	for _, a := range aliases {
		line = a.re.ReplaceAllLiteralString(line, a.with)
	}
	return line
}

// SplitChain splits a command line into the commands of a chain.
func SplitChain(line string) []string {
	return strings.Split(line, ChainSeparator)
}

// Eval evaluates a command line in fm. The commands of a chain run in order
// against a working path threaded through the chain, and the chain stops at
// the first command that fails or that hands control to a password prompt or
// an editor. The working path and identity of fm are not modified; the
// result carries the new values.
func (ev *Evaler) Eval(line string, fm Frame) Result {
	fm.ev = ev
	if !strings.Contains(line, ChainSeparator) {
		res := ev.evalOne(line, &fm)
		cwd := fm.Cwd
		if res.NewPath != nil {
			cwd = res.NewPath
		}
		if live := ev.FS.Snapshot().Nearest(cwd); !live.Equal(cwd) {
			res.NewPath = live
		}
		return res
	}

	res := Result{Success: true}
	startPath := fm.Cwd
	for _, cmd := range SplitChain(line) {
		r := ev.evalOne(cmd, &fm)
		res.merge(r)
		if r.NewPath != nil {
			fm.Cwd = r.NewPath
		}
		// The command may have removed the working directory.
		fm.Cwd = ev.FS.Snapshot().Nearest(fm.Cwd)
		if r.Identity != nil {
			fm.ID = *r.Identity
		}
		if !r.Success || r.Password != nil || r.Editor != nil || r.Bricked {
			break
		}
	}
	if !fm.Cwd.Equal(startPath) || res.Bricked {
		res.NewPath = fm.Cwd.Join()
	} else {
		res.NewPath = nil
	}
	return res
}

func (res *Result) merge(r Result) {
	res.Success = r.Success
	if res.Deferred != nil {
		d := res.Deferred.last()
		d.after = append(d.after, r.Output...)
		if r.Deferred != nil {
			d.next = r.Deferred
		}
	} else {
		res.Output = append(res.Output, r.Output...)
		res.Deferred = r.Deferred
	}
	res.NewPath = r.NewPath
	if r.Identity != nil {
		res.Identity = r.Identity
	}
	res.Navigate = append(res.Navigate, r.Navigate...)
	res.Clear = res.Clear || r.Clear
	res.Bricked = res.Bricked || r.Bricked
	res.Password = r.Password
	res.Editor = r.Editor
}

func (ev *Evaler) evalOne(line string, fm *Frame) (res Result) {
	name, args := Tokenize(ExpandAliases(line))
	if name == "" {
		return ok()
	}
	typed := name
	name = strings.ToLower(name)
	cmd, found := ev.commands[name]
	if !found {
		metrics.RecordCommand("unknown", false)
		return failf("bash: command not found: %s", typed)
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("command panicked", "command", name, "panic", r)
			res = failf("bash: %s: internal error", name)
		}
		metrics.RecordCommand(name, res.Success)
		logger.Debugw("command", "name", name, "args", args, "user", fm.ID.Name(),
			"cwd", fm.Cwd.String(), "success", res.Success)
	}()
	return cmd.Call(fm, args)
}

func errorf(format string, args ...any) ui.Line {
	return ui.Error(fmt.Sprintf(format, args...))
}

func green(format string, args ...any) ui.Line {
	return ui.Styled(fmt.Sprintf(format, args...), ui.FgGreen)
}

func yellow(s string) ui.Line { return ui.Styled(s, ui.FgYellow) }

func cyan(s string) ui.Line { return ui.Styled(s, ui.FgCyan) }

func blank() ui.Line { return ui.Plain("") }
