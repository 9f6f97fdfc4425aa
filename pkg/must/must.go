// Package must wraps calls whose errors are fatal, for use in tests.
package must

import (
	"os"
	"path/filepath"
)

// OK panics with err unless it is nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 is OK for calls that also return a value.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// Pipe returns the reader and writer of a new os.Pipe.
func Pipe() (r, w *os.File) {
	r, w, err := os.Pipe()
	OK(err)
	return r, w
}

// WriteFile creates a file with the given content, creating its directory
// first. Seed and résumé fixtures are written with it.
func WriteFile(name, content string) {
	OK(os.MkdirAll(filepath.Dir(name), 0o755))
	OK(os.WriteFile(name, []byte(content), 0o644))
}
