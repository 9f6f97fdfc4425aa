package edit

import (
	"strings"
	"unicode/utf8"

	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var nanoShortcuts = []string{
	"^G Get Help  ^O Write Out  ^W Where Is   ^K Cut Text   ^J Justify",
	"^X Exit      ^R Read File  ^\\ Replace    ^U Uncut Text ^T To Spell",
}

// nano edits a single buffer that only grows or shrinks at its end.
type nano struct {
	dir  vfs.Path
	name string
	save SaveFunc

	buf     TextBuffer
	message string
}

func newNano(req *eval.EditorRequest, save SaveFunc) *nano {
	return &nano{dir: req.Dir, name: req.Name, save: save,
		buf: Set(req.Content), message: req.Message}
}

func (n *nano) HandleKey(k ui.Key) Reaction {
	switch {
	case k == ui.K('O', ui.Ctrl) || k == ui.K('o', ui.Ctrl):
		if n.write() {
			n.message = "File saved"
		}
	case k == ui.K('X', ui.Ctrl) || k == ui.K('x', ui.Ctrl):
		if n.write() {
			return Reaction{Closed: true, Info: "File saved and nano exited"}
		}
	case k == ui.K('K', ui.Ctrl) || k == ui.K('k', ui.Ctrl):
		n.buf = Set("")
	case k == ui.K(ui.Backspace):
		n.buf = n.buf.End().Backspace()
	case k == ui.K(ui.Enter):
		n.buf = n.buf.End().InsertAtDot("\n")
	case k.IsPrintable():
		n.buf = n.buf.End().InsertAtDot(string(k.Rune))
	}
	return Reaction{}
}

func (n *nano) write() bool {
	if err := saveOrCreate(n.save, n.dir, n.name, n.buf.Content); err != nil {
		n.message = "[ Error writing " + n.name + ": Permission denied ]"
		return false
	}
	return true
}

// body returns the lines shown on a screen with the given number of text
// rows: the last ones.
func (n *nano) body(rows int) []string {
	body := strings.Split(n.buf.Content, "\n")
	if len(body) > rows {
		body = body[len(body)-rows:]
	}
	return body
}

func nanoRows(height int) int { return max(height-len(nanoShortcuts)-2, 1) }

func (n *nano) Render(height int) []ui.Line {
	out := []ui.Line{ui.Styled("  GNU nano 5.4    "+n.name+"    Modified", ui.Inverse)}
	rows := nanoRows(height)
	body := n.body(rows)
	for i, l := range body {
		if i == len(body)-1 {
			text := ui.T(l, ui.FgGreen).Concat(ui.T("_", ui.Inverse, ui.FgGreen))
			out = append(out, ui.Line{Kind: ui.NormalLine, Text: text})
		} else {
			out = append(out, ui.Styled(l, ui.FgGreen))
		}
	}
	out = pad(out, rows+1, func() ui.Line { return ui.Plain("") })
	out = append(out, ui.Plain(n.message))
	for _, s := range nanoShortcuts {
		out = append(out, ui.Styled(s, ui.Inverse))
	}
	return out
}

func (n *nano) Cursor(height int) (row, col int) {
	body := n.body(nanoRows(height))
	return len(body), utf8.RuneCountInString(body[len(body)-1])
}

func (n *nano) View() View {
	return View{
		Kind: "nano", Name: n.name, Mode: "insert", Message: n.message,
		Content: n.buf.Content, Col: len(n.buf.Content),
	}
}
