package eval

import (
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

// Frame is the context a command runs in.
type Frame struct {
	Cwd vfs.Path
	ID  vfs.Identity

	ev *Evaler
}

// Evaler returns the Evaler running the frame.
func (fm *Frame) Evaler() *Evaler { return fm.ev }

func (fm *Frame) tree() *vfs.Tree { return fm.ev.FS.Snapshot() }

func (fm *Frame) home() vfs.Path { return fm.ev.FS.Home() }

func (fm *Frame) resolve(expr string) (vfs.Path, error) {
	return fm.ev.FS.Resolve(expr, fm.Cwd)
}

// operand splits a file operand into its resolved parent directory and final
// name.
func (fm *Frame) operand(s string) (vfs.Path, string, error) {
	return fm.tree().SplitOperand(s, fm.Cwd, fm.home())
}

// lookup finds the node a file operand names.
func (fm *Frame) lookup(s string) (*vfs.Node, vfs.Path, string, bool) {
	dir, name, err := fm.operand(s)
	if err != nil || name == "" {
		return nil, nil, "", false
	}
	d, err := fm.tree().Dir(dir)
	if err != nil {
		return nil, nil, "", false
	}
	n, ok := d.Child(name)
	return n, dir, name, ok
}

// lookupFile finds the regular file a file operand names.
func (fm *Frame) lookupFile(s string) (*vfs.Node, bool) {
	n, _, _, ok := fm.lookup(s)
	if !ok || n.IsDir() {
		return nil, false
	}
	return n, true
}
