package vfs

import "strings"

// Path is an absolute location in the tree, as the sequence of names leading
// to it from the root. The root itself is the empty Path.
type Path []string

// ParsePath splits an absolute path string into a Path. Empty segments are
// dropped; "." and ".." are kept as names.
func ParsePath(s string) Path {
	p := Path{}
	for _, seg := range strings.Split(s, "/") {
		if seg != "" {
			p = append(p, seg)
		}
	}
	return p
}

func (p Path) String() string { return "/" + strings.Join(p, "/") }

// IsRoot reports whether p addresses the root directory.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Parent returns the path of the parent directory. The parent of the root is
// the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1:len(p)-1]
}

// Join returns a new Path with the given names appended. It never aliases p.
func (p Path) Join(names ...string) Path {
	q := make(Path, 0, len(p)+len(names))
	q = append(q, p...)
	return append(q, names...)
}

// Base returns the last name of p, or "/" for the root.
func (p Path) Base() string {
	if len(p) == 0 {
		return "/"
	}
	return p[len(p)-1]
}

// Contains reports whether any segment of p equals name.
func (p Path) Contains(name string) bool {
	for _, seg := range p {
		if seg == name {
			return true
		}
	}
	return false
}

// Equal reports whether p and q address the same location.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is p or one of its ancestors.
func (p Path) HasPrefix(q Path) bool {
	return len(q) <= len(p) && q.Equal(p[:len(q)])
}

// Abbrev renders p with the home prefix replaced by "~".
func (p Path) Abbrev(home Path) string {
	if len(home) > 0 && p.HasPrefix(home) {
		rest := p[len(home):]
		if len(rest) == 0 {
			return "~"
		}
		return "~/" + strings.Join(rest, "/")
	}
	return p.String()
}
