package vfs

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestIOFS(t *testing.T) {
	if err := fstest.TestFS(testTree().FS(),
		"etc/motd", "home/alice/notes.txt", "home/alice/proj", "home/alice/My Docs"); err != nil {
		t.Fatal(err)
	}
}

func TestIOFS_WalkDir(t *testing.T) {
	var paths []string
	err := fs.WalkDir(testTree().FS(), "home", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"home", "home/alice", "home/alice/My Docs",
		"home/alice/notes.txt", "home/alice/proj"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("WalkDir (-want +got):\n%s", diff)
	}
}

func TestIOFS_ReadFile(t *testing.T) {
	data, err := fs.ReadFile(testTree().FS(), "etc/motd")
	if err != nil || string(data) != "hello" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	if _, err := fs.ReadFile(testTree().FS(), "etc/nope"); err == nil {
		t.Errorf("ReadFile of a missing file succeeded")
	}
}

func TestPermMode(t *testing.T) {
	tests := []struct {
		perm  string
		isDir bool
		want  fs.FileMode
	}{
		{"-rw-r--r--", false, 0644},
		{"-rwxr-xr-x", false, 0755},
		{"-rwsr-xr-x", false, fs.ModeSetuid | 0755},
		{"drwx------", true, fs.ModeDir | 0700},
		{"drwxrwxrwt", true, fs.ModeDir | fs.ModeSticky | 0777},
		{"dr-xr-xr-x", true, fs.ModeDir | 0555},
		{"bogus", false, 0},
	}
	for _, test := range tests {
		if got := PermMode(test.perm, test.isDir); got != test.want {
			t.Errorf("PermMode(%q) = %v, want %v", test.perm, got, test.want)
		}
	}
}
