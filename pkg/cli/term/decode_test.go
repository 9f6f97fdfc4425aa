package term

import (
	"testing"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

var readKeyTests = []struct {
	input string
	want  ui.Key
}{
	// Plain runes, including multi-byte ones.
	{"a", ui.K('a')},
	{"é", ui.K('é')},
	{"\r", ui.K(ui.Enter)},
	{"\n", ui.K(ui.Enter)},
	{"\t", ui.K(ui.Tab)},
	{"\x7f", ui.K(ui.Backspace)},
	{"\x08", ui.K(ui.Backspace)},
	// Ctrl keys.
	{"\x18", ui.K('X', ui.Ctrl)},
	{"\x0f", ui.K('O', ui.Ctrl)},
	{"\x0b", ui.K('K', ui.Ctrl)},
	{"\x00", ui.K('`', ui.Ctrl)},
	// Lone escape.
	{"\x1b", ui.K(ui.Escape)},
	// Alt keys.
	{"\x1bf", ui.K('f', ui.Alt)},
	{"\x1b[", ui.K('[', ui.Alt)},
	{"\x1bO", ui.K('O', ui.Alt)},
	// CSI sequences.
	{"\x1b[A", ui.K(ui.Up)},
	{"\x1b[B", ui.K(ui.Down)},
	{"\x1b[C", ui.K(ui.Right)},
	{"\x1b[D", ui.K(ui.Left)},
	{"\x1b[H", ui.K(ui.Home)},
	{"\x1b[F", ui.K(ui.End)},
	{"\x1b[3~", ui.K(ui.Delete)},
	{"\x1b[1;5A", ui.K(ui.Up, ui.Ctrl)},
	{"\x1b[3;2~", ui.K(ui.Delete, ui.Shift)},
	{"\x1b[Z", ui.K(ui.Tab, ui.Shift)},
	{"\x1b\x1b[A", ui.K(ui.Up, ui.Alt)},
	// G3 sequences.
	{"\x1bOA", ui.K(ui.Up)},
	{"\x1bOP", ui.K(ui.F1)},
}

func TestDecoder_Key(t *testing.T) {
	for _, test := range readKeyTests {
		got, err := (&decoder{src: &stringSource{test.input}}).key()
		if err != nil {
			t.Errorf("key(%q) errors: %v", test.input, err)
		} else if got != test.want {
			t.Errorf("key(%q) = %v, want %v", test.input, got, test.want)
		}
	}
}

var badSeqTests = []struct {
	input   string
	wantErr string
}{
	{"\x1b[1", `incomplete CSI: "\x1b[1"`},
	{"\x1b[1;2;3A", `bad CSI: "\x1b[1;2;3A"`},
	{"\x1b[99~", `bad CSI: "\x1b[99~"`},
	{"\x1bOx", `bad G3: "\x1bOx"`},
}

func TestDecoder_Key_BadSequences(t *testing.T) {
	for _, test := range badSeqTests {
		_, err := (&decoder{src: &stringSource{test.input}}).key()
		if err == nil || err.Error() != test.wantErr {
			t.Errorf("key(%q) errors %v, want %s", test.input, err, test.wantErr)
		}
		if !IsReadErrorRecoverable(err) {
			t.Errorf("error from key(%q) should be recoverable", test.input)
		}
	}
}

func TestDecoder_Key_SequenceOfKeys(t *testing.T) {
	src := &stringSource{"ls\x1b[D\r"}
	want := []ui.Key{ui.K('l'), ui.K('s'), ui.K(ui.Left), ui.K(ui.Enter)}
	for i, w := range want {
		got, err := (&decoder{src: src}).key()
		if err != nil || got != w {
			t.Errorf("key %d = (%v, %v), want %v", i, got, err, w)
		}
	}
	if _, err := (&decoder{src: src}).key(); err != errTimeout {
		t.Errorf("got err %v at end of input, want errTimeout", err)
	}
}

func TestDecodeKeys(t *testing.T) {
	got := DecodeKeys("ia\x1b[99~x\r\x1b")
	want := []ui.Key{ui.K('i'), ui.K('a'), ui.K('x'), ui.K(ui.Enter), ui.K(ui.Escape)}
	if len(got) != len(want) {
		t.Fatalf("DecodeKeys -> %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %v, want %v", i, got[i], want[i])
		}
	}
}
