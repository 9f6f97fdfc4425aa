package vfs

import (
	"errors"
	"testing"

	"github.com/garrettyokley/termfolio/pkg/tt"
)

func TestApplyMode(t *testing.T) {
	tt.Test(t, tt.Fn("ApplyMode", ApplyMode), tt.Table{
		tt.Args("-rw-r--r--", "755").Rets("-rwxr-xr-x", nil),
		tt.Args("drwxr-xr-x", "700").Rets("drwx------", nil),
		tt.Args("-rw-r--r--", "+x").Rets("-rwxr-xr-x", nil),
		tt.Args("-rwxrwxrwx", "go-w").Rets("-rwxr-xr-x", nil),
		tt.Args("-rw-r--r--", "u=r").Rets("-r--r--r--", nil),
		tt.Args("-rw-r--r--", "a+w").Rets("-rw-rw-rw-", nil),
		tt.Args("-rw-r--r--", "abc").Rets("", errors.New("invalid mode: 'abc'")),
		tt.Args("-rw-r--r--", "+").Rets("", errors.New("invalid mode: '+'")),
		tt.Args("-rw-r--r--", "z+x").Rets("", errors.New("invalid mode: 'z+x'")),
	})
}

func TestChmod(t *testing.T) {
	fs := setup(t)
	home := Path{"home", "alice"}
	if err := fs.Chmod(alice, home, "notes.txt", "600"); err != nil {
		t.Fatal(err)
	}
	if n := mustLookup(t, fs.Snapshot(), "/home/alice/notes.txt"); n.Perm() != "-rw-------" {
		t.Errorf("perm = %s", n.Perm())
	}
	if err := fs.Chmod(alice, Path{"etc"}, "motd", "777"); !errors.Is(err, ErrPermission) {
		t.Errorf("chmod in /etc: got %v", err)
	}
	if err := fs.Chmod(alice, home, "missing", "777"); !errors.Is(err, ErrNotExist) {
		t.Errorf("chmod of missing file: got %v", err)
	}
}
