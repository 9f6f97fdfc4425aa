package vfs

import (
	"sync"
	"time"

	"github.com/garrettyokley/termfolio/pkg/logutil"
	"github.com/garrettyokley/termfolio/pkg/metrics"
)

var logger = logutil.GetLogger("[vfs] ")

// FS is the mutable filesystem store of a session. It holds the current tree
// snapshot; every mutation builds a new snapshot and installs it in one step,
// leaving earlier snapshots untouched.
type FS struct {
	mu    sync.Mutex
	tree  *Tree
	home  Path
	clock func() time.Time
}

// New returns an FS whose current snapshot is tree. The home path is used
// for "~" in path expressions and for the home-directory write rule.
func New(tree *Tree, home Path) *FS {
	return &FS{tree: tree, home: home.Join(), clock: time.Now}
}

// Snapshot returns the current tree. The returned tree never changes.
func (fs *FS) Snapshot() *Tree {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.tree
}

// Home returns the home path.
func (fs *FS) Home() Path { return fs.home.Join() }

// HomeSegment returns the last segment of the home path.
func (fs *FS) HomeSegment() string {
	if fs.home.IsRoot() {
		return ""
	}
	return fs.home.Base()
}

// Resolve resolves a path expression against cwd in the current snapshot.
func (fs *FS) Resolve(expr string, cwd Path) (Path, error) {
	return fs.Snapshot().Resolve(expr, cwd, fs.home)
}

// CanWrite evaluates the write rule against the current snapshot.
func (fs *FS) CanWrite(id Identity, dir Path, target string) bool {
	return fs.Snapshot().CanWrite(id, dir, target, fs.HomeSegment())
}

// CreateFile inserts a file named name into dir, replacing an existing file
// of the same name. The new file is owned by the acting identity.
func (fs *FS) CreateFile(id Identity, dir Path, name, content, perm string) error {
	return fs.mutate("create", id, dir, "", name, func(d *Node, now time.Time) (*Node, error) {
		if old, ok := d.Child(name); ok && old.IsDir() {
			return nil, ErrIsDir
		}
		owner := id.Name()
		return d.withChild(name, NewFile(content, perm, owner, owner, now)), nil
	})
}

// CreateDirectory inserts an empty directory named name into dir. An
// existing entry of the same name is replaced.
func (fs *FS) CreateDirectory(id Identity, dir Path, name, perm string) error {
	return fs.mutate("mkdir", id, dir, "", name, func(d *Node, _ time.Time) (*Node, error) {
		owner := id.Name()
		return d.withChild(name, NewDir(perm, owner, owner)), nil
	})
}

// UpdateFileContent replaces the content of the existing file name in dir.
func (fs *FS) UpdateFileContent(id Identity, dir Path, name, content string) error {
	return fs.mutate("update", id, dir, name, name, func(d *Node, now time.Time) (*Node, error) {
		f, ok := d.Child(name)
		if !ok {
			return nil, ErrNotExist
		}
		if f.IsDir() {
			return nil, ErrIsDir
		}
		return d.withChild(name, f.withContent(content, now)), nil
	})
}

// DeleteEntry removes the file or empty directory name from dir.
func (fs *FS) DeleteEntry(id Identity, dir Path, name string) error {
	return fs.mutate("delete", id, dir, name, name, func(d *Node, _ time.Time) (*Node, error) {
		child, ok := d.Child(name)
		if !ok {
			return nil, ErrNotExist
		}
		if child.IsDir() && child.Len() > 0 {
			return nil, ErrNotEmpty
		}
		return d.withoutChild(name), nil
	})
}

// DeleteDirectoryRecursive removes the entry name from dir together with
// everything below it.
func (fs *FS) DeleteDirectoryRecursive(id Identity, dir Path, name string) error {
	return fs.mutate("delete_recursive", id, dir, name, name, func(d *Node, _ time.Time) (*Node, error) {
		if _, ok := d.Child(name); !ok {
			return nil, ErrNotExist
		}
		return d.withoutChild(name), nil
	})
}

// Chown changes the owner and group of the entry name in dir. Only root may
// do this.
func (fs *FS) Chown(id Identity, dir Path, name, owner string) error {
	if !id.Root {
		err := &PathError{"chown", dir.Join(name).String(), ErrPermission}
		metrics.RecordFSMutation("chown", Class(err))
		return err
	}
	return fs.mutate("chown", id, dir, name, name, func(d *Node, _ time.Time) (*Node, error) {
		child, ok := d.Child(name)
		if !ok {
			return nil, ErrNotExist
		}
		return d.withChild(name, child.withOwner(owner, owner)), nil
	})
}

// Chmod changes the permission string of the entry name in dir according to
// a chmod mode (see ApplyMode).
func (fs *FS) Chmod(id Identity, dir Path, name, mode string) error {
	return fs.mutate("chmod", id, dir, name, name, func(d *Node, _ time.Time) (*Node, error) {
		child, ok := d.Child(name)
		if !ok {
			return nil, ErrNotExist
		}
		perm, err := ApplyMode(child.Perm(), mode)
		if err != nil {
			return nil, err
		}
		return d.withChild(name, child.withPerm(perm)), nil
	})
}

// Move moves the file src in srcDir to dst in dstDir, in a single snapshot
// swap. The moved file keeps its content and permissions and is owned by the
// acting identity. An existing file at the destination is replaced.
// Directories cannot be moved.
func (fs *FS) Move(id Identity, srcDir Path, src string, dstDir Path, dst string) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	defer fs.record("move", id, srcDir.Join(src), &err)

	srcPath, dstPath := srcDir.Join(src).String(), dstDir.Join(dst).String()
	sd, err := fs.tree.Dir(srcDir)
	if err != nil {
		return &PathError{"move", srcPath, ErrNotExist}
	}
	f, ok := sd.Child(src)
	if !ok {
		return &PathError{"move", srcPath, ErrNotExist}
	}
	if !fs.tree.CanWrite(id, srcDir, src, fs.HomeSegment()) {
		return &PathError{"move", srcPath, ErrPermission}
	}
	if f.IsDir() {
		return &PathError{"move", srcPath, ErrNotSupported}
	}
	dd, err := fs.tree.Dir(dstDir)
	if err != nil {
		return &PathError{"move", dstPath, ErrNotExist}
	}
	if old, ok := dd.Child(dst); ok && old.IsDir() {
		return &PathError{"move", dstPath, ErrIsDir}
	}
	if !fs.tree.CanWrite(id, dstDir, dst, fs.HomeSegment()) {
		return &PathError{"move", dstPath, ErrPermission}
	}
	if srcDir.Equal(dstDir) && src == dst {
		return nil
	}

	owner := id.Name()
	moved := NewFile(f.Content(), f.Perm(), owner, owner, fs.clock())
	root := replaceDir(fs.tree.root, srcDir, sd.withoutChild(src))
	dd, _ = NewTree(root).Dir(dstDir)
	fs.tree = NewTree(replaceDir(root, dstDir, dd.withChild(dst, moved)))
	return nil
}

// Brick replaces the whole tree with an empty root directory.
func (fs *FS) Brick() {
	fs.mu.Lock()
	fs.tree = NewTree(NewDir(DefaultDirPerm, "root", "root"))
	fs.mu.Unlock()
	logger.Warnw("filesystem bricked")
	metrics.RecordFSMutation("brick", Class(nil))
}

// mutate runs f on the directory at dir and installs the result. The
// directory must exist, and the write rule is checked against target (the
// directory itself when target is empty).
func (fs *FS) mutate(op string, id Identity, dir Path, target, name string,
	f func(d *Node, now time.Time) (*Node, error)) (err error) {

	fs.mu.Lock()
	defer fs.mu.Unlock()
	defer fs.record(op, id, dir.Join(name), &err)

	path := dir.Join(name).String()
	d, err := fs.tree.Dir(dir)
	if err != nil {
		return &PathError{op, path, ErrNotExist}
	}
	if !fs.tree.CanWrite(id, dir, target, fs.HomeSegment()) {
		return &PathError{op, path, ErrPermission}
	}
	newDir, err := f(d, fs.clock())
	if err != nil {
		return &PathError{op, path, err}
	}
	fs.tree = NewTree(replaceDir(fs.tree.root, dir, newDir))
	return nil
}

func (fs *FS) record(op string, id Identity, p Path, err *error) {
	metrics.RecordFSMutation(op, Class(*err))
	if *err != nil {
		logger.Debugw("mutation failed", "op", op, "user", id.Name(), "error", *err)
	} else {
		logger.Debugw("mutation", "op", op, "user", id.Name(), "path", p.String())
	}
}

// replaceDir returns a copy of root with the directory at p replaced by d.
// Only the directories along p are copied.
func replaceDir(root *Node, p Path, d *Node) *Node {
	if len(p) == 0 {
		return d
	}
	child, _ := root.Child(p[0])
	return root.withChild(p[0], replaceDir(child, p[1:], d))
}
