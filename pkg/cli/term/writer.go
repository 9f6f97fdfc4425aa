package term

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

const (
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	clearScreen = "\033[H\033[2J"
	eraseLine   = "\r\033[K"
)

// Writer renders styled output to a terminal using VT escape sequences.
type Writer struct {
	out io.Writer
	// Whether the current terminal line holds the input line.
	onInputLine bool
}

// NewWriter returns a Writer that writes VT sequences to the given io.Writer.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteLines writes output lines above the input line. The input line is
// erased first and must be redrawn with DrawInputLine afterwards.
func (w *Writer) WriteLines(lines []ui.Line) error {
	var sb strings.Builder
	if w.onInputLine {
		sb.WriteString(eraseLine)
		w.onInputLine = false
	}
	for _, line := range lines {
		sb.WriteString(line.Text.VTString())
		sb.WriteString("\r\n")
	}
	_, err := io.WriteString(w.out, sb.String())
	return err
}

// DrawInputLine redraws the current terminal line with the prompt and the
// input buffer, placing the cursor at the given byte offset of buffer. When
// masked is true, the buffer content is not shown.
func (w *Writer) DrawInputLine(prompt ui.Text, buffer string, cursor int, masked bool) error {
	var sb strings.Builder
	sb.WriteString(eraseLine)
	sb.WriteString(prompt.VTString())
	if !masked {
		sb.WriteString(buffer)
		if cursor < len(buffer) {
			fmt.Fprintf(&sb, "\033[%dD", utf8.RuneCountInString(buffer[cursor:]))
		}
	}
	w.onInputLine = true
	_, err := io.WriteString(w.out, sb.String())
	return err
}

// FinishInputLine moves past the input line, keeping its content on screen.
func (w *Writer) FinishInputLine() error {
	w.onInputLine = false
	_, err := io.WriteString(w.out, "\r\n")
	return err
}

// DrawScreen clears the screen, draws the given rows from the top and places
// the cursor at the given 0-based position.
func (w *Writer) DrawScreen(rows []ui.Text, cursorRow, cursorCol int) error {
	var sb strings.Builder
	sb.WriteString(hideCursor)
	sb.WriteString(clearScreen)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		sb.WriteString(row.VTString())
	}
	fmt.Fprintf(&sb, "\033[%d;%dH", cursorRow+1, cursorCol+1)
	sb.WriteString(showCursor)
	w.onInputLine = false
	_, err := io.WriteString(w.out, sb.String())
	return err
}

// ClearScreen clears the terminal screen and places the cursor at the top
// left corner.
func (w *Writer) ClearScreen() error {
	w.onInputLine = false
	_, err := io.WriteString(w.out, clearScreen)
	return err
}
