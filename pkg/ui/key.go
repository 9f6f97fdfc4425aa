package ui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key is a key press: a rune, or one of the negative special keys below, plus
// modifiers.
type Key struct {
	Rune rune
	Mod  Mod
}

// K returns the key r with mods held.
func K(r rune, mods ...Mod) Key {
	k := Key{Rune: r}
	for _, m := range mods {
		k.Mod |= m
	}
	return k
}

// Mod is a set of modifiers.
type Mod uint8

// Modifiers. Shift only appears on special keys, since a shifted letter is
// just an upper case rune.
const (
	Shift Mod = 1 << iota
	Alt
	Ctrl
)

// Special keys.
const (
	F1 rune = -1 - iota
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	Up
	Down
	Right
	Left
	Home
	Insert
	Delete
	End
	PageUp
	PageDown
)

// Control characters with names.
const (
	Tab       = '\t'
	Enter     = '\n'
	Escape    = '\x1b'
	Backspace = 0x7f
)

// Key names, canonical name first. The aliases are the KeyboardEvent.key
// names browsers send over RPC.
var keyNames = []struct {
	r     rune
	names []string
}{
	{F1, []string{"F1"}}, {F2, []string{"F2"}}, {F3, []string{"F3"}},
	{F4, []string{"F4"}}, {F5, []string{"F5"}}, {F6, []string{"F6"}},
	{F7, []string{"F7"}}, {F8, []string{"F8"}}, {F9, []string{"F9"}},
	{F10, []string{"F10"}}, {F11, []string{"F11"}}, {F12, []string{"F12"}},
	{Up, []string{"Up", "ArrowUp"}},
	{Down, []string{"Down", "ArrowDown"}},
	{Right, []string{"Right", "ArrowRight"}},
	{Left, []string{"Left", "ArrowLeft"}},
	{Home, []string{"Home"}},
	{Insert, []string{"Insert"}},
	{Delete, []string{"Delete", "Del"}},
	{End, []string{"End"}},
	{PageUp, []string{"PageUp"}},
	{PageDown, []string{"PageDown"}},
	{Tab, []string{"Tab"}},
	{Enter, []string{"Enter", "Return"}},
	{Escape, []string{"Escape", "Esc"}},
	{Backspace, []string{"Backspace"}},
	{' ', []string{"Space"}},
}

func (k Key) String() string {
	var sb strings.Builder
	for _, m := range modNames {
		if k.Mod&m.mod != 0 {
			sb.WriteString(m.name + "-")
		}
	}
	for _, kn := range keyNames {
		if kn.r == k.Rune {
			sb.WriteString(kn.names[0])
			return sb.String()
		}
	}
	if k.Rune < 0 {
		fmt.Fprintf(&sb, "(bad function key %d)", -k.Rune)
	} else {
		sb.WriteRune(k.Rune)
	}
	return sb.String()
}

// IsPrintable reports whether typing k inserts its rune.
func (k Key) IsPrintable() bool {
	return k.Mod&(Ctrl|Alt) == 0 && k.Rune > 0 && unicode.IsPrint(k.Rune)
}

var modNames = []struct {
	mod  Mod
	name string
}{{Ctrl, "Ctrl"}, {Alt, "Alt"}, {Shift, "Shift"}}

var modAbbrs = map[string]Mod{
	"c": Ctrl, "ctrl": Ctrl, "control": Ctrl,
	"a": Alt, "alt": Alt, "m": Alt, "meta": Alt,
	"s": Shift, "shift": Shift,
}

// ParseKey parses a key written as modifiers followed by a key name or a
// single rune, joined with "-" or "+", such as "Ctrl-X", "alt+b" or
// "ArrowUp". It accepts what Key.String returns.
func ParseKey(s string) (Key, error) {
	var mod Mod
	for {
		i := strings.IndexAny(s, "-+")
		if i <= 0 {
			break
		}
		m, ok := modAbbrs[strings.ToLower(s[:i])]
		if !ok {
			return Key{}, fmt.Errorf("bad modifier: %s", strings.ToLower(s[:i]))
		}
		mod |= m
		s = s[i+1:]
	}
	if r, size := utf8.DecodeRuneInString(s); size > 0 && size == len(s) {
		if mod&Ctrl == 0 {
			return K(r, mod), nil
		}
		// Ctrl ignores case, and Ctrl-I, Ctrl-J and Ctrl-[ are other keys.
		switch r = unicode.ToUpper(r); r {
		case 'I':
			return K(Tab, mod&^Ctrl), nil
		case 'J':
			return K(Enter, mod&^Ctrl), nil
		case '[':
			return K(Escape, mod&^Ctrl), nil
		}
		return K(r, mod), nil
	}
	for _, kn := range keyNames {
		for _, name := range kn.names {
			if s == name {
				return K(kn.r, mod), nil
			}
		}
	}
	return Key{}, fmt.Errorf("bad key: %s", s)
}
