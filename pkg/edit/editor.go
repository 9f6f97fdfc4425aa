// Package edit implements the editing surfaces of the terminal: the buffer
// behind the command line, and the vim-like and nano-like full-screen
// editors opened by the vim, vi, nano and emacs commands.
//
// The editors are pure state machines. They take one key at a time and never
// touch the filesystem themselves; saves go through the SaveFunc they are
// opened with.
package edit

import (
	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/logutil"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var logger = logutil.GetLogger("[edit] ")

// SaveFunc writes content to the file name in dir.
type SaveFunc func(dir vfs.Path, name, content string) error

// Reaction is the outcome of handling a key.
type Reaction struct {
	// Closed is set when the editor has closed.
	Closed bool
	// Info is a line to add to the terminal log when the editor closes. It
	// is empty when there is nothing to report.
	Info string
}

// Editor is an open editor.
type Editor interface {
	// HandleKey handles one key.
	HandleKey(k ui.Key) Reaction
	// Render returns the screen of the editor, height lines high.
	Render(height int) []ui.Line
	// Cursor returns the 0-based position of the cursor on the screen
	// returned by Render(height).
	Cursor(height int) (row, col int)
	// View returns the state of the editor.
	View() View
}

// View is a snapshot of the state of an editor, as exposed to front ends
// that draw the editor themselves.
type View struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Mode    string `json:"mode"`
	Message string `json:"message"`
	Content string `json:"content"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
}

// Open opens the editor described by req.
func Open(req *eval.EditorRequest, save SaveFunc) Editor {
	logger.Debugw("open", "kind", req.Kind.String(), "dir", req.Dir.String(), "name", req.Name)
	if req.Kind == eval.Nano {
		return newNano(req, save)
	}
	return newVim(req, save)
}

// saveOrCreate is the save operation of both editors.
func saveOrCreate(save SaveFunc, dir vfs.Path, name, content string) error {
	err := save(dir, name, content)
	if err != nil {
		logger.Infow("save failed", "dir", dir.String(), "name", name, "err", err)
	}
	return err
}

// pad appends empty lines, each produced by filler, until lines is n lines
// long.
func pad(lines []ui.Line, n int, filler func() ui.Line) []ui.Line {
	for len(lines) < n {
		lines = append(lines, filler())
	}
	return lines
}
