package vfs

import (
	"fmt"
	"strings"
)

// Identity is the acting user of an operation.
type Identity struct {
	User string
	Root bool
}

// Name returns the effective user name: "root" when elevated.
func (id Identity) Name() string {
	if id.Root {
		return "root"
	}
	return id.User
}

// CanWrite decides whether id may modify the directory at dir, or its child
// named target when target is non-empty and exists.
//
// Root may do anything. Otherwise dir must resolve to a directory, and the
// decisive node (the existing target, or dir itself) must be owned by the
// user, unless dir lies under a path containing homeSegment. Permission
// strings are not consulted.
func (t *Tree) CanWrite(id Identity, dir Path, target, homeSegment string) bool {
	if id.Root {
		return true
	}
	d, err := t.Dir(dir)
	if err != nil {
		return false
	}
	underHome := homeSegment != "" && dir.Contains(homeSegment)
	if target != "" {
		if child, ok := d.Child(target); ok {
			return child.Owner() == id.User || underHome
		}
	}
	return d.Owner() == id.User || underHome
}

// ApplyMode applies a chmod mode to a permission string. The mode is either
// three octal digits, such as "755", or a symbolic mode such as "+x", "go-w"
// or "u+rw". The type character of perm is kept.
func ApplyMode(perm, mode string) (string, error) {
	if len(perm) != 10 {
		perm = "----------"
	}
	b := []byte(perm)
	if len(mode) == 3 && strings.Trim(mode, "01234567") == "" {
		for i := 0; i < 3; i++ {
			d := mode[i] - '0'
			for j, c := range "rwx" {
				b[1+3*i+j] = '-'
				if d&(4>>j) != 0 {
					b[1+3*i+j] = byte(c)
				}
			}
		}
		return string(b), nil
	}

	i := strings.IndexAny(mode, "+-=")
	if i == -1 || i == len(mode)-1 || strings.Trim(mode[i+1:], "rwx") != "" ||
		strings.Trim(mode[:i], "ugoa") != "" {
		return "", fmt.Errorf("invalid mode: '%s'", mode)
	}
	who, op, what := mode[:i], mode[i], mode[i+1:]
	if who == "" || strings.Contains(who, "a") {
		who = "ugo"
	}
	for _, w := range who {
		off := 1 + 3*strings.IndexRune("ugo", w)
		for j, c := range "rwx" {
			set := strings.ContainsRune(what, c)
			switch {
			case op == '+' && set:
				b[off+j] = byte(c)
			case op == '-' && set, op == '=' && !set:
				b[off+j] = '-'
			case op == '=':
				b[off+j] = byte(c)
			}
		}
	}
	return string(b), nil
}
