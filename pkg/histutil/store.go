// Package histutil keeps the command history of a session and supports
// walking it backward and forward, the way a shell recalls earlier lines.
package histutil

import (
	"errors"
	"strings"

	"github.com/xiaq/persistent/vector"
)

// ErrEndOfHistory is returned by Cursor.Get when the cursor is outside the
// history.
var ErrEndOfHistory = errors.New("end of history")

// Cmd is one entry of the history.
type Cmd struct {
	Text string
	Seq  int
}

// Store is an append-only command history. Cursors obtained from a Store see
// the history as it was when they were created.
type Store struct{ cmds vector.Vector }

// NewStore returns a Store holding the given entries.
func NewStore(texts ...string) *Store {
	s := &Store{vector.Empty}
	for _, text := range texts {
		s.Add(text)
	}
	return s
}

// Add appends an entry and returns its sequence number.
func (s *Store) Add(text string) int {
	seq := s.cmds.Len()
	s.cmds = s.cmds.Cons(Cmd{Text: text, Seq: seq})
	return seq
}

// Len returns the number of entries.
func (s *Store) Len() int { return s.cmds.Len() }

// All returns all entries, oldest first.
func (s *Store) All() []Cmd {
	cmds := make([]Cmd, s.cmds.Len())
	for i := range cmds {
		v, _ := s.cmds.Index(i)
		cmds[i] = v.(Cmd)
	}
	return cmds
}

// Cursor returns a cursor over entries starting with prefix. It starts just
// past the newest entry.
func (s *Store) Cursor(prefix string) *Cursor {
	return &Cursor{s.cmds, prefix, s.cmds.Len()}
}

// Cursor walks a history snapshot. Prev and Next move it; Get reads the entry
// under it.
type Cursor struct {
	cmds   vector.Vector
	prefix string
	index  int
}

func (c *Cursor) at(i int) Cmd {
	v, _ := c.cmds.Index(i)
	return v.(Cmd)
}

// Prev moves to the previous matching entry, or before the first entry.
func (c *Cursor) Prev() {
	if c.index < 0 {
		return
	}
	for c.index--; c.index >= 0; c.index-- {
		if strings.HasPrefix(c.at(c.index).Text, c.prefix) {
			return
		}
	}
}

// Next moves to the next matching entry, or past the last entry.
func (c *Cursor) Next() {
	n := c.cmds.Len()
	if c.index >= n {
		return
	}
	for c.index++; c.index < n; c.index++ {
		if strings.HasPrefix(c.at(c.index).Text, c.prefix) {
			return
		}
	}
}

// Get returns the entry under the cursor.
func (c *Cursor) Get() (Cmd, error) {
	if c.index < 0 || c.index >= c.cmds.Len() {
		return Cmd{}, ErrEndOfHistory
	}
	return c.at(c.index), nil
}
