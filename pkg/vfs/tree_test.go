package vfs

import (
	"errors"
	"testing"

	"github.com/garrettyokley/termfolio/pkg/tt"
)

// testTree builds:
//
//	/etc/motd
//	/home/alice/{notes.txt, proj/, My Docs/}
//	/srv/ (owned by alice)
func testTree() *Tree {
	root := NewDir(DefaultDirPerm, "root", "root")
	etc := NewDir(DefaultDirPerm, "root", "root").
		withChild("motd", NewFile("hello", DefaultFilePerm, "root", "root", epoch))
	alice := NewDir(DefaultDirPerm, "alice", "alice").
		withChild("notes.txt", NewFile("n", DefaultFilePerm, "alice", "alice", epoch)).
		withChild("proj", NewDir(DefaultDirPerm, "alice", "alice")).
		withChild("My Docs", NewDir(DefaultDirPerm, "alice", "alice"))
	home := NewDir(DefaultDirPerm, "root", "root").withChild("alice", alice)
	srv := NewDir(DefaultDirPerm, "alice", "alice")
	root = root.withChild("etc", etc).withChild("home", home).withChild("srv", srv)
	return NewTree(root)
}

var testHome = Path{"home", "alice"}

func TestResolve(t *testing.T) {
	tree := testTree()
	resolve := func(expr, cwd string) string {
		p, err := tree.Resolve(expr, ParsePath(cwd), testHome)
		if err != nil {
			return "error"
		}
		return p.String()
	}
	tt.Test(t, tt.Fn("resolve", resolve), tt.Table{
		tt.Args("", "/etc").Rets("/home/alice"),
		tt.Args("~", "/").Rets("/home/alice"),
		tt.Args("/", "/home/alice").Rets("/"),
		tt.Args("..", "/home/alice").Rets("/home"),
		tt.Args("..", "/").Rets("/"),
		tt.Args("/etc", "/home/alice").Rets("/etc"),
		tt.Args("/home/alice/proj", "/").Rets("/home/alice/proj"),
		tt.Args("proj", "/home/alice").Rets("/home/alice/proj"),
		tt.Args("My Docs", "/home/alice").Rets("/home/alice/My Docs"),
		tt.Args("../../etc", "/home/alice").Rets("/etc"),
		tt.Args("./proj", "/home/alice").Rets("/home/alice/proj"),
		tt.Args("proj/", "/home/alice").Rets("/home/alice/proj"),
		tt.Args("../..", "/home").Rets("/"),
		tt.Args("~/proj", "/etc").Rets("/home/alice/proj"),
		// Files and missing entries are not directories.
		tt.Args("notes.txt", "/home/alice").Rets("error"),
		tt.Args("/etc/motd", "/").Rets("error"),
		tt.Args("nope", "/").Rets("error"),
		// Names are case-sensitive.
		tt.Args("/ETC", "/").Rets("error"),
		// ".." is only understood in relative expressions.
		tt.Args("/home/..", "/").Rets("error"),
	})
}

func TestNearest(t *testing.T) {
	tree := testTree()
	nearest := func(p string) string { return tree.Nearest(ParsePath(p)).String() }
	tt.Test(t, tt.Fn("nearest", nearest), tt.Table{
		tt.Args("/home/alice/proj").Rets("/home/alice/proj"),
		tt.Args("/home/alice/gone").Rets("/home/alice"),
		tt.Args("/home/alice/gone/deeper").Rets("/home/alice"),
		tt.Args("/home/alice/notes.txt").Rets("/home/alice"),
		tt.Args("/missing").Rets("/"),
		tt.Args("/").Rets("/"),
	})
}

func TestResolve_AbsoluteIgnoresContext(t *testing.T) {
	tree := testTree()
	for _, cwd := range []Path{{}, {"etc"}, {"home", "alice", "proj"}} {
		p, err := tree.Resolve("/home/alice", cwd, testHome)
		if err != nil || p.String() != "/home/alice" {
			t.Errorf("Resolve from %s = %v, %v", cwd, p, err)
		}
	}
}

func TestResolve_ErrorIsNotExist(t *testing.T) {
	_, err := testTree().Resolve("missing", Path{}, testHome)
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("got error %v, want ErrNotExist", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) || pe.Op != "resolve" {
		t.Errorf("got error %#v, want *PathError with op resolve", err)
	}
}

func TestSplitOperand(t *testing.T) {
	tree := testTree()
	split := func(operand, cwd string) (string, string) {
		dir, name, err := tree.SplitOperand(operand, ParsePath(cwd), testHome)
		if err != nil {
			return "error", ""
		}
		return dir.String(), name
	}
	tt.Test(t, tt.Fn("split", split), tt.Table{
		tt.Args("a.txt", "/home/alice").Rets("/home/alice", "a.txt"),
		tt.Args("proj/a.txt", "/home/alice").Rets("/home/alice/proj", "a.txt"),
		tt.Args("/etc/motd", "/home/alice").Rets("/etc", "motd"),
		tt.Args("/motd", "/home").Rets("/", "motd"),
		tt.Args("~/notes.txt", "/").Rets("/home/alice", "notes.txt"),
		tt.Args("~", "/").Rets("/home", "alice"),
		tt.Args("missing/a.txt", "/").Rets("error", ""),
	})
}

func TestLookup(t *testing.T) {
	tree := testTree()
	n, err := tree.Lookup(Path{"etc", "motd"})
	if err != nil || n.Content() != "hello" {
		t.Errorf("Lookup /etc/motd = %v, %v", n, err)
	}
	if _, err := tree.Lookup(Path{"etc", "motd", "x"}); !errors.Is(err, ErrNotDir) {
		t.Errorf("Lookup below a file: got %v, want ErrNotDir", err)
	}
	if _, err := tree.Lookup(Path{"etc", "nope"}); !errors.Is(err, ErrNotExist) {
		t.Errorf("Lookup missing: got %v, want ErrNotExist", err)
	}
}

func TestCanWrite(t *testing.T) {
	tree := testTree()
	alice := Identity{User: "alice"}
	bob := Identity{User: "bob"}
	root := Identity{User: "alice", Root: true}
	canWrite := func(id Identity, dir, target string) bool {
		return tree.CanWrite(id, ParsePath(dir), target, "alice")
	}
	tt.Test(t, tt.Fn("canWrite", canWrite), tt.Table{
		tt.Args(root, "/etc", "motd").Rets(true),
		tt.Args(root, "/missing", "").Rets(true),
		tt.Args(alice, "/etc", "").Rets(false),
		tt.Args(alice, "/etc", "motd").Rets(false),
		tt.Args(alice, "/etc", "new").Rets(false),
		tt.Args(alice, "/home/alice", "notes.txt").Rets(true),
		tt.Args(alice, "/srv", "").Rets(true),
		tt.Args(alice, "/missing", "").Rets(false),
		// The home rule looks at the path, not at who asks.
		tt.Args(bob, "/home/alice", "notes.txt").Rets(true),
		tt.Args(bob, "/srv", "").Rets(false),
		tt.Args(alice, "/home", "").Rets(false),
		tt.Args(alice, "/home", "alice").Rets(true),
	})
}

func TestPath(t *testing.T) {
	tt.Test(t, tt.Fn("ParsePath(...).String", func(s string) string {
		return ParsePath(s).String()
	}), tt.Table{
		tt.Args("/").Rets("/"),
		tt.Args("").Rets("/"),
		tt.Args("/a//b/").Rets("/a/b"),
	})
	home := Path{"home", "alice"}
	tt.Test(t, tt.Fn("Abbrev", Path.Abbrev), tt.Table{
		tt.Args(Path{"home", "alice"}, home).Rets("~"),
		tt.Args(Path{"home", "alice", "proj"}, home).Rets("~/proj"),
		tt.Args(Path{"home"}, home).Rets("/home"),
		tt.Args(Path{"home", "alicex"}, home).Rets("/home/alicex"),
		tt.Args(Path{}, home).Rets("/"),
	})
	p := Path{"a", "b"}
	q := p.Parent().Join("c")
	if p[1] != "b" || q.String() != "/a/c" {
		t.Errorf("Join aliases its receiver: p = %v, q = %v", p, q)
	}
}
