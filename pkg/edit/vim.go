package edit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

// VimMode is the mode of the vim-like editor.
type VimMode uint8

// Possible values of VimMode.
const (
	Normal VimMode = iota
	Insert
	Command
)

var vimModeNames = [...]string{"normal", "insert", "command"}

func (m VimMode) String() string { return vimModeNames[m] }

const insertMessage = "-- INSERT --"

type vim struct {
	dir  vfs.Path
	name string
	save SaveFunc

	lines   [][]rune
	line    int
	col     int
	mode    VimMode
	message string
}

func newVim(req *eval.EditorRequest, save SaveFunc) *vim {
	v := &vim{dir: req.Dir, name: req.Name, save: save, message: req.Message}
	for _, l := range strings.Split(req.Content, "\n") {
		v.lines = append(v.lines, []rune(l))
	}
	return v
}

func (v *vim) content() string {
	ss := make([]string, len(v.lines))
	for i, l := range v.lines {
		ss[i] = string(l)
	}
	return strings.Join(ss, "\n")
}

func (v *vim) cur() []rune { return v.lines[v.line] }

func (v *vim) HandleKey(k ui.Key) Reaction {
	switch v.mode {
	case Insert:
		v.insertKey(k)
	case Command:
		return v.commandKey(k)
	default:
		v.normalKey(k)
	}
	return Reaction{}
}

func (v *vim) normalKey(k ui.Key) {
	switch k {
	case ui.K('i'):
		v.mode, v.message = Insert, insertMessage
	case ui.K(':'):
		v.mode, v.message = Command, ":"
	case ui.K('o'):
		v.lines = append(v.lines[:v.line+1], append([][]rune{{}}, v.lines[v.line+1:]...)...)
		v.line++
		v.col = 0
		v.mode, v.message = Insert, insertMessage
	case ui.K('x'):
		if l := v.cur(); v.col < len(l) {
			v.lines[v.line] = append(l[:v.col:v.col], l[v.col+1:]...)
		}
	case ui.K('h'), ui.K(ui.Left):
		v.col = max(0, v.col-1)
	case ui.K('l'), ui.K(ui.Right):
		v.col = min(len(v.cur()), v.col+1)
	case ui.K('k'), ui.K(ui.Up):
		v.line = max(0, v.line-1)
		v.col = min(len(v.cur()), v.col)
	case ui.K('j'), ui.K(ui.Down):
		v.line = min(len(v.lines)-1, v.line+1)
		v.col = min(len(v.cur()), v.col)
	case ui.K(ui.Escape):
		v.message = ""
	}
}

func (v *vim) insertKey(k ui.Key) {
	l := v.cur()
	switch {
	case k == ui.K(ui.Escape):
		v.mode, v.message = Normal, ""
	case k == ui.K(ui.Backspace):
		if v.col > 0 {
			v.lines[v.line] = append(l[:v.col-1:v.col-1], l[v.col:]...)
			v.col--
		} else if v.line > 0 {
			prev := v.lines[v.line-1]
			v.col = len(prev)
			v.lines[v.line-1] = append(prev[:len(prev):len(prev)], l...)
			v.lines = append(v.lines[:v.line], v.lines[v.line+1:]...)
			v.line--
		}
	case k == ui.K(ui.Enter):
		before, after := l[:v.col:v.col], append([]rune(nil), l[v.col:]...)
		v.lines[v.line] = before
		v.lines = append(v.lines[:v.line+1], append([][]rune{after}, v.lines[v.line+1:]...)...)
		v.line++
		v.col = 0
	case k.IsPrintable():
		v.lines[v.line] = append(l[:v.col:v.col], append([]rune{k.Rune}, l[v.col:]...)...)
		v.col++
	}
}

func (v *vim) commandKey(k ui.Key) Reaction {
	switch {
	case k == ui.K(ui.Enter):
		cmd := strings.TrimSpace(strings.TrimPrefix(v.message, ":"))
		v.mode, v.message = Normal, ""
		return v.runCommand(cmd)
	case k == ui.K(ui.Escape):
		v.mode, v.message = Normal, ""
	case k == ui.K(ui.Backspace):
		if len(v.message) > 1 {
			_, n := utf8.DecodeLastRuneInString(v.message)
			v.message = v.message[:len(v.message)-n]
		} else {
			v.mode, v.message = Normal, ""
		}
	case k.IsPrintable():
		v.message += string(k.Rune)
	}
	return Reaction{}
}

// runCommand runs an ex command. The editor is in normal mode when it is
// called; a message set here stays on the status line.
func (v *vim) runCommand(cmd string) Reaction {
	content := v.content()
	blank := strings.TrimSpace(content) == ""
	switch {
	case cmd == "w" || cmd == "write":
		if v.name == "" {
			v.message = "E32: No file name"
			return Reaction{}
		}
		v.write(v.name, content)
	case strings.HasPrefix(cmd, "w "):
		name := strings.TrimSpace(cmd[2:])
		if v.write(name, content) {
			v.name = name
		}
	case cmd == "wq" || cmd == "x":
		if v.name == "" {
			if blank {
				return Reaction{Closed: true}
			}
			v.message = "E32: No file name"
			return Reaction{}
		}
		if v.write(v.name, content) {
			return Reaction{Closed: true, Info: fmt.Sprintf(`"%s" written`, v.name)}
		}
	case strings.HasPrefix(cmd, "wq "):
		name := strings.TrimSpace(cmd[3:])
		if v.write(name, content) {
			return Reaction{Closed: true, Info: fmt.Sprintf(`"%s" written`, name)}
		}
	case cmd == "q" || cmd == "q!":
		return Reaction{Closed: true}
	default:
		v.message = "E492: Not an editor command: " + cmd
	}
	return Reaction{}
}

// write saves content as name and sets the status message. It reports
// whether the save succeeded.
func (v *vim) write(name, content string) bool {
	if err := saveOrCreate(v.save, v.dir, name, content); err != nil {
		v.message = fmt.Sprintf(`E13: Permission denied writing "%s"`, name)
		return false
	}
	v.message = fmt.Sprintf(`"%s" %dL, %dC written`,
		name, len(v.lines), utf8.RuneCountInString(content))
	return true
}

// status returns the text of the status line.
func (v *vim) status() string {
	switch {
	case v.mode == Insert:
		return insertMessage
	case v.mode == Command || v.message != "":
		return v.message
	}
	name := v.name
	if name == "" {
		name = "[No Name]"
	}
	content := v.content()
	s := fmt.Sprintf(`"%s" %dL, %dC`, name, len(v.lines), utf8.RuneCountInString(content))
	if content != "" {
		s += " [Modified]"
	}
	return s
}

// top returns the first line shown on a screen with the given number of
// text rows.
func (v *vim) top(rows int) int {
	return max(0, v.line-rows+1)
}

func (v *vim) Render(height int) []ui.Line {
	rows := max(height-1, 1)
	top := v.top(rows)
	var out []ui.Line
	for i := top; i < len(v.lines) && len(out) < rows; i++ {
		l := v.lines[i]
		if i != v.line {
			out = append(out, ui.Styled(string(l), ui.FgGreen))
			continue
		}
		under := " "
		if v.col < len(l) {
			under = string(l[v.col])
		}
		rest := ""
		if v.col+1 < len(l) {
			rest = string(l[v.col+1:])
		}
		text := ui.T(string(l[:v.col]), ui.FgGreen).Concat(
			ui.T(under, ui.Inverse, ui.FgGreen), ui.T(rest, ui.FgGreen))
		out = append(out, ui.Line{Kind: ui.NormalLine, Text: text})
	}
	out = pad(out, rows, func() ui.Line { return ui.Styled("~", ui.FgBlue) })
	return append(out, ui.Styled(v.status(), ui.Inverse))
}

func (v *vim) Cursor(height int) (row, col int) {
	rows := max(height-1, 1)
	if v.mode == Command {
		return rows, utf8.RuneCountInString(v.message)
	}
	return v.line - v.top(rows), v.col
}

func (v *vim) View() View {
	return View{
		Kind: "vim", Name: v.name, Mode: v.mode.String(), Message: v.status(),
		Content: v.content(), Line: v.line, Col: v.col,
	}
}
