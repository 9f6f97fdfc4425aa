package term

import (
	"strings"
	"testing"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

func TestWriter_InputLineAndOutput(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	w.DrawInputLine(ui.T("$ "), "echo hi", 4, false)
	w.WriteLines([]ui.Line{ui.Plain("hi"), ui.Error("oops")})

	want := eraseLine + "$ echo hi" + "\033[3D" +
		eraseLine + "hi\r\n" + "\033[31moops\033[m\r\n"
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_MaskedInput(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.DrawInputLine(ui.T("[sudo] password for user: "), "secret", 6, true)
	if got := sb.String(); strings.Contains(got, "secret") {
		t.Errorf("masked input leaked: %q", got)
	}
}

func TestWriter_FinishInputLine(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.DrawInputLine(ui.T("$ "), "pwd", 3, false)
	w.FinishInputLine()
	w.WriteLines([]ui.Line{ui.Plain("/")})
	want := eraseLine + "$ pwd" + "\r\n" + "/\r\n"
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_DrawScreen(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	w.DrawScreen([]ui.Text{ui.T("line 1"), ui.T("line 2")}, 1, 3)
	want := hideCursor + clearScreen + "line 1\r\nline 2" + "\033[2;4H" + showCursor
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	sb.Reset()
	w.ClearScreen()
	if sb.String() != clearScreen {
		t.Errorf("ClearScreen wrote %q", sb.String())
	}
}
