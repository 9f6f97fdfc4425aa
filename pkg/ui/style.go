package ui

import (
	"strconv"
	"strings"
)

// Style is how a span of text is drawn.
type Style struct {
	Fg    Color
	Attrs Attr
}

// Color is a foreground color of the 16-color ANSI palette.
type Color uint8

// The zero Color is the default color of the terminal.
const (
	DefaultColor Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

var colorNames = [...]string{
	"default", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (c Color) String() string {
	switch {
	case c <= White:
		return colorNames[c]
	case c <= BrightWhite:
		return "bright-" + colorNames[c-BrightBlack+Black]
	}
	return "color(" + strconv.Itoa(int(c)) + ")"
}

func (c Color) sgr() string {
	if c >= BrightBlack {
		return strconv.Itoa(90 + int(c-BrightBlack))
	}
	return strconv.Itoa(30 + int(c-Black))
}

// Attr is a set of text attributes.
type Attr uint8

// Attributes, in SGR order.
const (
	Bold Attr = 1 << iota
	Dim
	Italic
	Underlined
	Inverse
)

var attrSGR = [...]string{"1", "2", "3", "4", "7"}

// SGR returns the parameters of the SGR sequence selecting s, or "" for the
// default style.
func (s Style) SGR() string {
	var params []string
	for i, code := range attrSGR {
		if s.Attrs&(1<<i) != 0 {
			params = append(params, code)
		}
	}
	if s.Fg != DefaultColor {
		params = append(params, s.Fg.sgr())
	}
	return strings.Join(params, ";")
}

// Styling changes a Style. Both Attr and the Fg* values are Stylings.
type Styling interface{ apply(*Style) }

func (a Attr) apply(s *Style) { s.Attrs |= a }

type fg Color

func (c fg) apply(s *Style) { s.Fg = Color(c) }

// Fg returns a Styling setting the foreground color.
func Fg(c Color) Styling { return fg(c) }

// Foreground stylings in use.
var (
	FgRed       = Fg(Red)
	FgGreen     = Fg(Green)
	FgYellow    = Fg(Yellow)
	FgBlue      = Fg(Blue)
	FgCyan      = Fg(Cyan)
	FgWhite     = Fg(White)
	FgBrightRed = Fg(BrightRed)
)
