package vfs

import "strings"

// Tree is an immutable snapshot of the whole filesystem.
type Tree struct {
	root *Node
}

// NewTree returns a Tree with the given root directory.
func NewTree(root *Node) *Tree { return &Tree{root} }

// Root returns the root directory.
func (t *Tree) Root() *Node { return t.root }

// Lookup returns the node at p.
func (t *Tree) Lookup(p Path) (*Node, error) {
	n := t.root
	for i, name := range p {
		if !n.IsDir() {
			return nil, &PathError{"lookup", p[:i].String(), ErrNotDir}
		}
		child, ok := n.Child(name)
		if !ok {
			return nil, &PathError{"lookup", p[:i+1].String(), ErrNotExist}
		}
		n = child
	}
	return n, nil
}

// Dir returns the directory at p. It fails with ErrNotExist if any segment of
// p is missing or is not a directory.
func (t *Tree) Dir(p Path) (*Node, error) {
	n := t.root
	for i, name := range p {
		child, ok := n.Child(name)
		if !ok || !child.IsDir() {
			return nil, &PathError{"lookup", p[:i+1].String(), ErrNotExist}
		}
		n = child
	}
	return n, nil
}

// Nearest returns the deepest directory among p and its ancestors, which is
// p itself unless part of p was removed. The root always exists.
func (t *Tree) Nearest(p Path) Path {
	n := t.root
	for i, name := range p {
		child, ok := n.Child(name)
		if !ok || !child.IsDir() {
			return p[:i].Join()
		}
		n = child
	}
	return p
}

// Resolve turns a path expression into the absolute path of an existing
// directory. Relative expressions are resolved against cwd; "~" denotes home.
//
// Rules, in priority order: an empty expression or "~" is home; "/" is the
// root; ".." is the parent of cwd (the root stays the root); an expression
// starting with "/" walks from the root and each segment must name an
// existing directory; anything else walks from cwd, with ".." popping one
// level. "~/" at the start is replaced with the home path. A "." segment is
// skipped. Resolution never creates directories.
func (t *Tree) Resolve(expr string, cwd, home Path) (Path, error) {
	switch expr {
	case "", "~":
		return home.Join(), nil
	case "/":
		return Path{}, nil
	case "..":
		return cwd.Parent().Join(), nil
	}
	if strings.HasPrefix(expr, "~/") {
		expr = home.String() + expr[1:]
	}
	fail := func() (Path, error) {
		return nil, &PathError{"resolve", expr, ErrNotExist}
	}

	var p Path
	n := t.root
	relative := !strings.HasPrefix(expr, "/")
	if relative {
		p = cwd.Join()
		var err error
		if n, err = t.Dir(p); err != nil {
			return fail()
		}
	} else {
		p = Path{}
	}
	for _, seg := range strings.Split(expr, "/") {
		switch {
		case seg == "" || seg == ".":
			continue
		case seg == ".." && relative:
			p = p.Parent()
			n, _ = t.Dir(p)
			continue
		}
		child, ok := n.Child(seg)
		if !ok || !child.IsDir() {
			return fail()
		}
		p = p.Join(seg)
		n = child
	}
	return p, nil
}

// SplitOperand resolves the directory part of a file operand such as
// "proj/a.txt", returning the resolved parent directory and the final name.
// An operand without "/" names an entry of cwd. The final name may be empty
// when the operand ends with "/".
func (t *Tree) SplitOperand(operand string, cwd, home Path) (Path, string, error) {
	i := strings.LastIndexByte(operand, '/')
	if i == -1 {
		if operand == "~" {
			return home.Parent().Join(), home.Base(), nil
		}
		return cwd.Join(), operand, nil
	}
	dirExpr, name := operand[:i], operand[i+1:]
	if dirExpr == "" {
		dirExpr = "/"
	}
	dir, err := t.Resolve(dirExpr, cwd, home)
	if err != nil {
		return nil, "", err
	}
	return dir, name, nil
}
