package ui

// LineKind tags an output line for the presentation layer.
type LineKind uint8

// Possible values for LineKind.
const (
	NormalLine LineKind = iota
	InfoLine
	ErrorLine
	DimLine
)

var lineKindNames = [...]string{"normal", "info", "error", "dim"}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "normal"
}

// Line is one line of terminal output.
type Line struct {
	Kind LineKind
	Text Text
}

// Plain returns a line with unstyled content.
func Plain(s string) Line { return Line{NormalLine, T(s)} }

// Styled returns a normal line with the given stylings applied.
func Styled(s string, ts ...Styling) Line { return Line{NormalLine, T(s, ts...)} }

// Info returns an info line, rendered in cyan.
func Info(s string) Line { return Line{InfoLine, T(s, FgCyan)} }

// Error returns an error line, rendered in red.
func Error(s string) Line { return Line{ErrorLine, T(s, FgRed)} }

// Dimmed returns a dim line.
func Dimmed(s string) Line { return Line{DimLine, T(s, Dim)} }

// String returns the content of the line without styles.
func (l Line) String() string { return l.Text.Plain() }

// Lines converts a list of strings to plain lines.
func Lines(ss ...string) []Line {
	lines := make([]Line, len(ss))
	for i, s := range ss {
		lines[i] = Plain(s)
	}
	return lines
}
