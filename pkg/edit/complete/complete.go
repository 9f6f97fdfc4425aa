// Package complete implements tab completion for the command line.
package complete

import (
	"errors"
	"sort"
	"strings"

	"github.com/garrettyokley/termfolio/pkg/edit"
	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

// An error returned by Complete if there is no applicable completion.
var errNoCompletion = errors.New("no completion")

// IsNoCompletion reports whether err is the error Complete returns when
// nothing matches.
func IsNoCompletion(err error) bool { return err == errNoCompletion }

// Result keeps the result of the completion algorithm.
type Result struct {
	// Candidates, sorted. Path candidates carry the directory part of the
	// word being completed.
	Items []string
	// The completed buffer. Only set when there is exactly one candidate.
	Buffer edit.TextBuffer
}

// Complete completes the last word of code, a command line typed in cwd.
//
// Leading "cd" commands of a chain are simulated to find the directory the
// last command will run in. The first word of a command completes to command
// names, later words to entries of that directory. A word containing "/"
// completes to entries of the directory it names. Matching is a
// case-insensitive prefix match.
func Complete(code string, cwd vfs.Path, ev *eval.Evaler) (*Result, error) {
	dir := cwd
	current := code
	if strings.Contains(code, eval.ChainSeparator) {
		parts := eval.SplitChain(code)
		current = parts[len(parts)-1]
		for _, part := range parts[:len(parts)-1] {
			dir = simulateCd(ev, dir, part)
		}
	}

	// Only the last word is replaced; everything before it is kept as typed.
	start := strings.LastIndexByte(current, ' ') + 1
	word := current[start:]
	first := len(strings.Fields(current[:start])) == 0
	seed := eval.Unquote(word)

	var items []string
	switch {
	case strings.Contains(seed, "/"):
		items = pathItems(ev, dir, seed)
	case first:
		items = filterPrefix(seed, append(ev.CommandNames(), eval.AliasNames...))
	default:
		items = dirItems(ev, dir, seed)
	}
	if len(items) == 0 {
		return nil, errNoCompletion
	}
	sort.Strings(items)
	items = dedup(items)

	res := &Result{Items: items}
	if len(items) == 1 {
		insert := items[0]
		if strings.Contains(insert, " ") && !strings.HasPrefix(insert, `"`) {
			insert = `"` + insert + `"`
		}
		res.Buffer = edit.Set(code[:len(code)-len(word)] + insert)
	}
	return res, nil
}

// simulateCd returns the directory a "cd" command would change to from dir.
// Other commands and failing cds leave dir unchanged.
func simulateCd(ev *eval.Evaler, dir vfs.Path, cmd string) vfs.Path {
	fields := strings.Fields(cmd)
	if len(fields) == 0 || strings.ToLower(fields[0]) != "cd" {
		return dir
	}
	var arg string
	if len(fields) > 1 {
		arg = fields[1]
	}
	p, err := ev.FS.Resolve(arg, dir)
	if err != nil {
		return dir
	}
	return p
}

// pathItems completes a word that contains a "/".
func pathItems(ev *eval.Evaler, dir vfs.Path, seed string) []string {
	i := strings.LastIndexByte(seed, '/')
	prefix, last := seed[:i+1], seed[i+1:]
	parent, _, err := ev.FS.Snapshot().SplitOperand(seed, dir, ev.FS.Home())
	if err != nil {
		return nil
	}
	names := dirItems(ev, parent, last)
	for i, name := range names {
		names[i] = prefix + name
	}
	return names
}

// dirItems returns the entries of dir matching seed.
func dirItems(ev *eval.Evaler, dir vfs.Path, seed string) []string {
	d, err := ev.FS.Snapshot().Dir(dir)
	if err != nil {
		return nil
	}
	return filterPrefix(seed, d.Names())
}

func filterPrefix(seed string, names []string) []string {
	seed = strings.ToLower(seed)
	var matches []string
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), seed) {
			matches = append(matches, name)
		}
	}
	return matches
}

func dedup(items []string) []string {
	var result []string
	for i, item := range items {
		if i == 0 || item != items[i-1] {
			result = append(result, item)
		}
	}
	return result
}
