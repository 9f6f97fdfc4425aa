// Package ui contains the styled text and key types shared by the interpreter
// and the front ends.
package ui

import "strings"

// Text is a run of styled spans.
type Text []Span

// Span is a string drawn in one style.
type Span struct {
	Style
	Text string
}

// T returns a Text of a single span of s with the stylings applied.
func T(s string, stylings ...Styling) Text {
	var st Style
	for _, styling := range stylings {
		styling.apply(&st)
	}
	return Text{{st, s}}
}

// Concat returns a new Text of t followed by ts.
func (t Text) Concat(ts ...Text) Text {
	joined := append(Text(nil), t...)
	for _, more := range ts {
		joined = append(joined, more...)
	}
	return joined
}

// Plain returns the characters of t without styles, as the RPC bridge and
// line mode send them.
func (t Text) Plain() string {
	var sb strings.Builder
	for _, span := range t {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// VTString renders t with SGR escape sequences, resetting the style after
// each styled span.
func (t Text) VTString() string {
	var sb strings.Builder
	for _, span := range t {
		if sgr := span.SGR(); sgr != "" {
			sb.WriteString("\033[" + sgr + "m" + span.Text + "\033[m")
		} else {
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}

func (t Text) String() string { return t.VTString() }
