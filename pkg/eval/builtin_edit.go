package eval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

var editCommands = map[string]CommandFunc{
	"vim":   vim,
	"vi":    vim,
	"nano":  nano,
	"emacs": emacs,
}

// editorTarget resolves the file an editor is opened on. It returns the
// directory to save into, the file name, the existing content and whether
// the file exists.
func (fm *Frame) editorTarget(operand string) *EditorRequest {
	req := &EditorRequest{Dir: fm.Cwd.Join(), Name: operand}
	dir, name, err := fm.operand(operand)
	if err != nil || name == "" {
		return req
	}
	req.Dir, req.Name = dir, name
	if n, found := fm.lookupFile(operand); found {
		req.Content, req.Exists = n.Content(), true
	}
	return req
}

func vim(fm *Frame, args []string) Result {
	operand := joinOperand(args)
	req := &EditorRequest{Dir: fm.Cwd.Join()}
	if operand != "" {
		req = fm.editorTarget(operand)
	}
	req.Kind = Vim
	switch {
	case req.Name == "":
		req.Message = "[No Name]"
	case !req.Exists:
		req.Message = fmt.Sprintf(`"%s" [New File]`, req.Name)
	default:
		req.Message = fmt.Sprintf(`"%s" %dL, %dC`,
			req.Name, strings.Count(req.Content, "\n")+1, utf8.RuneCountInString(req.Content))
	}
	return Result{Success: true, Editor: req}
}

func nano(fm *Frame, args []string) Result {
	operand := joinOperand(args)
	if operand == "" {
		operand = "untitled.txt"
	}
	req := fm.editorTarget(operand)
	req.Kind = Nano
	req.Message = "GNU nano - " + req.Name
	return Result{Success: true, Editor: req}
}

// emacs opens the nano editor under a different banner.
func emacs(fm *Frame, args []string) Result {
	operand := joinOperand(args)
	if operand == "" {
		return failf("emacs: missing filename")
	}
	req := fm.editorTarget(operand)
	req.Kind = Nano
	req.Message = "GNU Emacs (simplified) - " + req.Name
	return Result{
		Success: true,
		Output:  []ui.Line{green("Emacs would open here... (using nano instead)")},
		Editor:  req,
	}
}
