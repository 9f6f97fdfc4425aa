package edit

import (
	"unicode/utf8"
)

// TextBuffer is a line of text with a cursor.
type TextBuffer struct {
	// Content of the buffer.
	Content string
	// Position of the dot (more commonly known as the cursor), as a byte index
	// into Content.
	Dot int
}

// InsertAtDot inserts text at the dot and moves the dot after it.
func (buf TextBuffer) InsertAtDot(text string) TextBuffer {
	return TextBuffer{
		Content: buf.Content[:buf.Dot] + text + buf.Content[buf.Dot:],
		Dot:     buf.Dot + len(text),
	}
}

// Backspace deletes the rune before the dot.
func (buf TextBuffer) Backspace() TextBuffer {
	if buf.Dot == 0 {
		return buf
	}
	_, chop := utf8.DecodeLastRuneInString(buf.Content[:buf.Dot])
	return TextBuffer{
		Content: buf.Content[:buf.Dot-chop] + buf.Content[buf.Dot:],
		Dot:     buf.Dot - chop,
	}
}

// Delete deletes the rune after the dot.
func (buf TextBuffer) Delete() TextBuffer {
	if buf.Dot == len(buf.Content) {
		return buf
	}
	_, chop := utf8.DecodeRuneInString(buf.Content[buf.Dot:])
	return TextBuffer{
		Content: buf.Content[:buf.Dot] + buf.Content[buf.Dot+chop:],
		Dot:     buf.Dot,
	}
}

// Left moves the dot one rune to the left.
func (buf TextBuffer) Left() TextBuffer {
	if buf.Dot == 0 {
		return buf
	}
	_, n := utf8.DecodeLastRuneInString(buf.Content[:buf.Dot])
	buf.Dot -= n
	return buf
}

// Right moves the dot one rune to the right.
func (buf TextBuffer) Right() TextBuffer {
	if buf.Dot == len(buf.Content) {
		return buf
	}
	_, n := utf8.DecodeRuneInString(buf.Content[buf.Dot:])
	buf.Dot += n
	return buf
}

// Home moves the dot to the start.
func (buf TextBuffer) Home() TextBuffer { return TextBuffer{buf.Content, 0} }

// End moves the dot to the end.
func (buf TextBuffer) End() TextBuffer { return TextBuffer{buf.Content, len(buf.Content)} }

// Set returns a buffer with the given content and the dot at its end.
func Set(content string) TextBuffer { return TextBuffer{content, len(content)} }
