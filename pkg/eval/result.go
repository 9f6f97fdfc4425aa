package eval

import (
	"context"

	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

// Result is the outcome of evaluating a command or a chain of commands.
type Result struct {
	// Success is false when the (last evaluated) command failed. It only
	// affects chain short-circuiting.
	Success bool
	// Output lines, in order.
	Output []ui.Line
	// NewPath is the working path after evaluation, or nil if unchanged.
	NewPath vfs.Path
	// Identity is the identity after evaluation, or nil if unchanged.
	Identity *vfs.Identity
	// Navigate lists pages the front end is asked to open.
	Navigate []Navigation
	// Deferred output that must be awaited after Output is shown.
	Deferred *Deferred
	// Clear requests that the front end clear its output log.
	Clear bool
	// Bricked is set once the filesystem has been wiped.
	Bricked bool
	// Password, when non-nil, asks the session to collect the sudo password
	// before running a pending command.
	Password *PasswordRequest
	// Editor, when non-nil, asks the session to open an editor.
	Editor *EditorRequest
}

// Navigation is a request to open a page or URL.
type Navigation struct {
	Target string
	NewTab bool
}

// PasswordRequest is a command waiting for the sudo password.
type PasswordRequest struct {
	Command string
	Path    vfs.Path
}

// EditorKind identifies one of the editors.
type EditorKind uint8

// Possible values of EditorKind.
const (
	Vim EditorKind = iota
	Nano
)

func (k EditorKind) String() string {
	if k == Nano {
		return "nano"
	}
	return "vim"
}

// EditorRequest describes an editor to open. An empty Name means the
// buffer has no file name yet.
type EditorRequest struct {
	Kind    EditorKind
	Dir     vfs.Path
	Name    string
	Content string
	Exists  bool
	Message string
}

// Deferred is output that can only be produced after an asynchronous
// operation, namely the résumé fetch. Output that was evaluated after the
// operation was started is appended behind it.
type Deferred struct {
	produce func(ctx context.Context) []ui.Line
	after   []ui.Line
	next    *Deferred
}

// NewDeferred returns a Deferred whose output is produced by f.
func NewDeferred(f func(ctx context.Context) []ui.Line) *Deferred {
	return &Deferred{produce: f}
}

// Await blocks until the output is available and returns it.
func (d *Deferred) Await(ctx context.Context) []ui.Line {
	var lines []ui.Line
	for ; d != nil; d = d.next {
		lines = append(lines, d.produce(ctx)...)
		lines = append(lines, d.after...)
	}
	return lines
}

func (d *Deferred) last() *Deferred {
	for d.next != nil {
		d = d.next
	}
	return d
}

func ok(lines ...ui.Line) Result { return Result{Success: true, Output: lines} }

func fail(lines ...ui.Line) Result { return Result{Success: false, Output: lines} }

func failf(format string, args ...any) Result { return fail(errorf(format, args...)) }
