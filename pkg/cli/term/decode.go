package term

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

// Bytes of one escape sequence arrive together; a longer gap ends the
// sequence.
var keySeqTimeout = 10 * time.Millisecond

var errTimeout = errors.New("timed out")

// badSeq is an error for a malformed escape sequence.
type badSeq struct {
	what string
	seq  string
}

func (e badSeq) Error() string { return fmt.Sprintf("%s: %q", e.what, e.seq) }

// IsReadErrorRecoverable reports whether reading can go on after err: the
// input was malformed, but the terminal is fine.
func IsReadErrorRecoverable(err error) bool {
	var b badSeq
	return errors.As(err, &b) || err == errTimeout
}

// byteSource yields input bytes. A negative timeout waits forever; otherwise
// errTimeout is returned when no byte arrives in time.
type byteSource interface {
	readByte(timeout time.Duration) (byte, error)
}

// stringSource is a byteSource of a fixed string, which times out once
// drained.
type stringSource struct{ data string }

func (s *stringSource) readByte(time.Duration) (byte, error) {
	if s.data == "" {
		return 0, errTimeout
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}

// DecodeKeys decodes s as the bytes typed on a terminal in raw mode, dropping
// malformed escape sequences. Line mode uses it to feed editors.
func DecodeKeys(s string) []ui.Key {
	src := &stringSource{s}
	var keys []ui.Key
	for src.data != "" {
		if k, err := (&decoder{src: src}).key(); err == nil {
			keys = append(keys, k)
		}
	}
	return keys
}

// decoder decodes one key.
type decoder struct {
	src byteSource
	// Runes read so far, for error messages.
	seq []rune
}

const endOfSeq rune = -1

func (d *decoder) readRune(timeout time.Duration) (rune, error) {
	b, err := d.src.readByte(timeout)
	if err != nil {
		return 0, err
	}
	buf := []byte{b}
	for !utf8.FullRune(buf) {
		b, err := d.src.readByte(keySeqTimeout)
		if err != nil {
			return 0, err
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	d.seq = append(d.seq, r)
	return r, nil
}

// next returns the next rune of the current sequence, or endOfSeq.
func (d *decoder) next() rune {
	r, err := d.readRune(keySeqTimeout)
	if err != nil {
		return endOfSeq
	}
	return r
}

func (d *decoder) fail(what string) (ui.Key, error) {
	return ui.Key{}, badSeq{what, string(d.seq)}
}

func (d *decoder) key() (ui.Key, error) {
	r, err := d.readRune(-1)
	if err != nil {
		return ui.Key{}, err
	}
	if r != 0x1b {
		return controlKey(r), nil
	}
	r = d.next()
	// rxvt marks Alt with a second ESC before a CSI or SS3 sequence.
	alt := false
	if r == 0x1b {
		alt, r = true, d.next()
	}
	var k ui.Key
	switch r {
	case endOfSeq:
		return ui.K(ui.Escape), nil
	case '[':
		k, err = d.csi()
	case 'O':
		k, err = d.ss3()
	default:
		k = controlKey(r)
		k.Mod |= ui.Alt
		return k, nil
	}
	if err == nil && alt {
		k.Mod |= ui.Alt
	}
	return k, err
}

// csi decodes the rest of "ESC [ params final".
func (d *decoder) csi() (ui.Key, error) {
	r := d.next()
	if r == endOfSeq {
		return ui.K('[', ui.Alt), nil
	}
	var params []int
	for ; r == ';' || ('0' <= r && r <= '9'); r = d.next() {
		if r == ';' || len(params) == 0 {
			params = append(params, 0)
		}
		if r != ';' {
			params[len(params)-1] = params[len(params)-1]*10 + int(r-'0')
		}
	}
	if r == endOfSeq {
		return d.fail("incomplete CSI")
	}
	var k ui.Key
	var mod int
	switch {
	case r == '~' && len(params) >= 1 && len(params) <= 2:
		name, ok := csiTilde[params[0]]
		if !ok {
			return d.fail("bad CSI")
		}
		k = ui.K(name)
		if len(params) == 2 {
			mod = params[1]
		}
	case csiFinal[r] != ui.Key{}:
		k = csiFinal[r]
		switch {
		case len(params) == 2 && params[0] == 1:
			mod = params[1]
		case len(params) != 0:
			return d.fail("bad CSI")
		}
	default:
		return d.fail("bad CSI")
	}
	if mod > 16 {
		return d.fail("bad CSI")
	}
	return withXtermMod(k, mod), nil
}

// ss3 decodes the rest of "ESC O final".
func (d *decoder) ss3() (ui.Key, error) {
	r := d.next()
	if r == endOfSeq {
		return ui.K('O', ui.Alt), nil
	}
	if k, ok := ss3Final[r]; ok {
		return k, nil
	}
	return d.fail("bad G3")
}

// controlKey maps a rune typed outside escape sequences to a key. Tab, Enter
// and Backspace win over their Ctrl spellings.
func controlKey(r rune) ui.Key {
	switch r {
	case '\r', '\n':
		return ui.K(ui.Enter)
	case '\t':
		return ui.K(ui.Tab)
	case 0x08, 0x7f:
		return ui.K(ui.Backspace)
	case 0:
		return ui.K('`', ui.Ctrl)
	case 0x1e:
		return ui.K('6', ui.Ctrl)
	case 0x1f:
		return ui.K('/', ui.Ctrl)
	}
	if 0x01 <= r && r <= 0x1d {
		return ui.K(r+'@', ui.Ctrl)
	}
	return ui.K(r)
}

// withXtermMod applies an xterm modifier parameter, which is 1 plus a bit
// set of Shift, Alt, Ctrl and Meta. Meta counts as Alt.
func withXtermMod(k ui.Key, mod int) ui.Key {
	if mod <= 1 {
		return k
	}
	bits := mod - 1
	if bits&1 != 0 {
		k.Mod |= ui.Shift
	}
	if bits&(2|8) != 0 {
		k.Mod |= ui.Alt
	}
	if bits&4 != 0 {
		k.Mod |= ui.Ctrl
	}
	return k
}

var ss3Final = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'M': ui.K(ui.Enter),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

var csiFinal = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'Z': ui.K(ui.Tab, ui.Shift),
}

// Keys of "ESC [ n ~" by n.
var csiTilde = map[int]rune{
	1: ui.Home, 2: ui.Insert, 3: ui.Delete, 4: ui.End,
	5: ui.PageUp, 6: ui.PageDown, 7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4, 15: ui.F5,
	17: ui.F6, 18: ui.F7, 19: ui.F8, 20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}
