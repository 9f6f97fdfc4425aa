package vfs

import (
	"sort"
	"time"

	"github.com/xiaq/persistent/hash"
	"github.com/xiaq/persistent/hashmap"
)

// Kind tells files from directories.
type Kind uint8

// Possible values for Kind.
const (
	File Kind = iota
	Dir
)

func (k Kind) String() string {
	if k == Dir {
		return "dir"
	}
	return "file"
}

// Default permission strings for new entries.
const (
	DefaultFilePerm = "-rw-r--r--"
	DefaultDirPerm  = "drwxr-xr-x"
)

// Node is an immutable file or directory. Directory children are kept in a
// persistent map, so a modified copy of a directory shares all untouched
// children with the original.
type Node struct {
	kind     Kind
	perm     string
	owner    string
	group    string
	content  string
	modified time.Time
	children hashmap.Map
}

func equalNames(a, b any) bool { return a == b }

func hashName(k any) uint32 { return hash.String(k.(string)) }

var emptyChildren = hashmap.New(equalNames, hashName)

// NewFile returns a new file node.
func NewFile(content, perm, owner, group string, modified time.Time) *Node {
	return &Node{kind: File, perm: perm, owner: owner, group: group,
		content: content, modified: modified}
}

// NewDir returns a new empty directory node.
func NewDir(perm, owner, group string) *Node {
	return &Node{kind: Dir, perm: perm, owner: owner, group: group,
		children: emptyChildren}
}

func (n *Node) Kind() Kind         { return n.kind }
func (n *Node) IsDir() bool        { return n.kind == Dir }
func (n *Node) Perm() string       { return n.perm }
func (n *Node) Owner() string      { return n.owner }
func (n *Node) Group() string      { return n.group }
func (n *Node) Content() string    { return n.content }
func (n *Node) ModTime() time.Time { return n.modified }
func (n *Node) Size() int          { return len(n.content) }

func (n *Node) withContent(c string, t time.Time) *Node {
	m := *n
	m.content = c
	m.modified = t
	return &m
}

// Len returns the number of children of a directory. It is 0 for files.
func (n *Node) Len() int {
	if n.children == nil {
		return 0
	}
	return n.children.Len()
}

// Child looks up a direct child by exact name.
func (n *Node) Child(name string) (*Node, bool) {
	if n.children == nil {
		return nil, false
	}
	v, ok := n.children.Index(name)
	if !ok {
		return nil, false
	}
	return v.(*Node), true
}

// Names returns the names of all children, sorted.
func (n *Node) Names() []string {
	if n.children == nil {
		return nil
	}
	names := make([]string, 0, n.children.Len())
	for it := n.children.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		names = append(names, k.(string))
	}
	sort.Strings(names)
	return names
}

func (n *Node) withChild(name string, child *Node) *Node {
	m := *n
	m.children = n.children.Assoc(name, child)
	return &m
}

func (n *Node) withoutChild(name string) *Node {
	m := *n
	m.children = n.children.Dissoc(name)
	return &m
}

func (n *Node) withOwner(owner, group string) *Node {
	m := *n
	m.owner = owner
	m.group = group
	return &m
}

func (n *Node) withPerm(perm string) *Node {
	m := *n
	m.perm = perm
	return &m
}
