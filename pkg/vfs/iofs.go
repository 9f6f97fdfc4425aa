package vfs

import (
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

// IOFS exposes a snapshot through the io/fs interfaces, so that helpers such
// as fs.WalkDir and fs.Glob work on the virtual tree. Paths are relative to
// the root of the tree, in io/fs syntax.
type IOFS struct {
	tree *Tree
}

var (
	_ fs.FS         = IOFS{}
	_ fs.StatFS     = IOFS{}
	_ fs.ReadFileFS = IOFS{}
	_ fs.ReadDirFS  = IOFS{}
)

// FS returns an io/fs view of t.
func (t *Tree) FS() IOFS { return IOFS{t} }

func (f IOFS) lookup(op, name string) (*Node, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	var p Path
	if name != "." {
		p = ParsePath(name)
	}
	n, err := f.tree.Lookup(p)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return n, nil
}

// Open implements fs.FS.
func (f IOFS) Open(name string) (fs.File, error) {
	n, err := f.lookup("open", name)
	if err != nil {
		return nil, err
	}
	info := fileInfo{baseName(name), n}
	if n.IsDir() {
		return &dirFile{info: info}, nil
	}
	return &file{strings.NewReader(n.Content()), info}, nil
}

// Stat implements fs.StatFS.
func (f IOFS) Stat(name string) (fs.FileInfo, error) {
	n, err := f.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return fileInfo{baseName(name), n}, nil
}

// ReadFile implements fs.ReadFileFS.
func (f IOFS) ReadFile(name string) ([]byte, error) {
	n, err := f.lookup("readfile", name)
	if err != nil {
		return nil, err
	}
	if n.IsDir() {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	return []byte(n.Content()), nil
}

// ReadDir implements fs.ReadDirFS. Entries are sorted by name.
func (f IOFS) ReadDir(name string) ([]fs.DirEntry, error) {
	n, err := f.lookup("readdir", name)
	if err != nil {
		return nil, err
	}
	if !n.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrNotDir}
	}
	return dirEntries(n), nil
}

func dirEntries(n *Node) []fs.DirEntry {
	names := n.Names()
	entries := make([]fs.DirEntry, len(names))
	for i, name := range names {
		child, _ := n.Child(name)
		entries[i] = fs.FileInfoToDirEntry(fileInfo{name, child})
	}
	return entries
}

func baseName(name string) string {
	if name == "." {
		return "."
	}
	return path.Base(name)
}

type file struct {
	*strings.Reader
	info fileInfo
}

func (f *file) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *file) Close() error               { return nil }

type dirFile struct {
	info    fileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *dirFile) Close() error               { return nil }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

// ReadDir implements fs.ReadDirFile.
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.entries == nil {
		d.entries = dirEntries(d.info.node)
	}
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}

type fileInfo struct {
	name string
	node *Node
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return int64(fi.node.Size()) }
func (fi fileInfo) Mode() fs.FileMode  { return PermMode(fi.node.Perm(), fi.node.IsDir()) }
func (fi fileInfo) ModTime() time.Time { return fi.node.ModTime() }
func (fi fileInfo) IsDir() bool        { return fi.node.IsDir() }
func (fi fileInfo) Sys() any           { return fi.node }

// PermMode converts a permission string such as "drwxr-xr-x" to an
// fs.FileMode. Any character other than "-" sets the corresponding bit.
func PermMode(perm string, isDir bool) fs.FileMode {
	var mode fs.FileMode
	if isDir {
		mode |= fs.ModeDir
	}
	if len(perm) != 10 {
		return mode
	}
	bits := perm[1:]
	for i := 0; i < 9; i++ {
		c := bits[i]
		switch c {
		case '-':
			continue
		case 'S', 'T':
		default:
			mode |= 1 << (8 - i)
		}
		switch {
		case (c == 's' || c == 'S') && i == 2:
			mode |= fs.ModeSetuid
		case (c == 's' || c == 'S') && i == 5:
			mode |= fs.ModeSetgid
		case (c == 't' || c == 'T') && i == 8:
			mode |= fs.ModeSticky
		}
	}
	return mode
}
