package eval

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/garrettyokley/termfolio/pkg/errutil"
	"github.com/garrettyokley/termfolio/pkg/getopt"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var fsCommands = map[string]CommandFunc{
	"touch": touch,
	"mkdir": mkdir,
	"rm":    rm,
	"rmdir": rmdir,
	"cp":    cp,
	"mv":    mv,
	"chmod": chmod,
	"chown": chown,
	"grep":  grep,
	"find":  find,
}

// errText returns the message for a filesystem error, in the wording of the
// coreutils.
func errText(err error) string {
	switch {
	case errors.Is(err, vfs.ErrPermission):
		return "Permission denied"
	case errors.Is(err, vfs.ErrNotExist):
		return "No such file or directory"
	case errors.Is(err, vfs.ErrIsDir):
		return "Is a directory"
	case errors.Is(err, vfs.ErrNotDir):
		return "Not a directory"
	case errors.Is(err, vfs.ErrNotEmpty):
		return "Directory not empty"
	case errors.Is(err, vfs.ErrNotSupported):
		return "Operation not supported"
	default:
		return "Operation failed"
	}
}

// trimSlashes drops trailing slashes from an operand, keeping "/" itself.
func trimSlashes(s string) string {
	if t := strings.TrimRight(s, "/"); t != "" {
		return t
	}
	return s
}

func touch(fm *Frame, args []string) Result {
	if len(args) == 0 {
		return failf("touch: missing file operand")
	}
	name := args[0]
	dir, base, err := fm.operand(name)
	if err != nil || base == "" {
		return failf("touch: cannot touch '%s': No such file or directory", name)
	}
	if n, _, _, exists := fm.lookup(name); exists {
		if n.IsDir() {
			return ok()
		}
		err = fm.ev.FS.UpdateFileContent(fm.ID, dir, base, n.Content())
	} else {
		err = fm.ev.FS.CreateFile(fm.ID, dir, base, "", vfs.DefaultFilePerm)
	}
	if err != nil {
		return failf("touch: cannot touch '%s': %s", name, errText(err))
	}
	return ok(green("Created file: %s", name))
}

func mkdir(fm *Frame, args []string) Result {
	if len(args) == 0 {
		return failf("mkdir: missing operand")
	}
	name := trimSlashes(args[0])
	dir, base, err := fm.operand(name)
	if err != nil || base == "" {
		return failf("mkdir: cannot create directory '%s': No such file or directory", name)
	}
	if _, _, _, exists := fm.lookup(name); exists {
		return failf("mkdir: cannot create directory '%s': File exists", name)
	}
	if err := fm.ev.FS.CreateDirectory(fm.ID, dir, base, vfs.DefaultDirPerm); err != nil {
		return failf("mkdir: cannot create directory '%s': %s", name, errText(err))
	}
	return ok(green("Created directory: %s", name))
}

var (
	rmRecursive      = &getopt.Spec{Short: 'r', Long: "recursive"}
	rmRecursiveUpper = &getopt.Spec{Short: 'R'}
	rmForce          = &getopt.Spec{Short: 'f', Long: "force"}
	rmNoPreserveRoot = &getopt.Spec{Long: "no-preserve-root"}
	rmSpecs          = []*getopt.Spec{rmRecursive, rmRecursiveUpper, rmForce, rmNoPreserveRoot}
)

func rm(fm *Frame, args []string) Result {
	opts, operands, _ := getopt.Parse(args, getopt.GNU, rmSpecs...)
	recursive := opts.Has(rmRecursive) || opts.Has(rmRecursiveUpper)
	if len(operands) == 0 {
		return failf("rm: missing operand")
	}
	target := trimSlashes(operands[0])
	if target == "/" {
		// Only a recursive removal can get past the failsafe.
		return rmRoot(fm, recursive && opts.Has(rmNoPreserveRoot))
	}

	dir, base, err := fm.operand(target)
	if err != nil || base == "" {
		return failf("rm: cannot remove '%s': No such file or directory", target)
	}
	if recursive {
		err = fm.ev.FS.DeleteDirectoryRecursive(fm.ID, dir, base)
	} else {
		if n, _, _, exists := fm.lookup(target); exists && n.IsDir() {
			return failf("rm: cannot remove '%s': Is a directory", target)
		}
		err = fm.ev.FS.DeleteEntry(fm.ID, dir, base)
	}
	if err != nil {
		return failf("rm: cannot remove '%s': %s", target, errText(err))
	}
	return ok(green("Removed: %s", target))
}

var rootDirs = []string{"/bin", "/usr", "/etc", "/lib", "/var", "/root"}

func rmRoot(fm *Frame, noPreserveRoot bool) Result {
	refusal := []ui.Line{
		errorf("rm: it is dangerous to operate recursively on '/'"),
		errorf("rm: use --no-preserve-root to override this failsafe"),
	}
	if !noPreserveRoot {
		return fail(refusal...)
	}
	if !fm.ID.Root {
		out := refusal
		for _, d := range rootDirs {
			out = append(out, errorf("rm: cannot remove '%s': Permission denied", d))
		}
		out = append(out, blank(),
			yellow("As a regular user, you can only delete files you own."),
			yellow("System files are protected by root ownership."),
			cyan("Try: sudo rm -rf / --no-preserve-root"))
		return fail(out...)
	}

	fm.ev.FS.Brick()
	doom := func(s string) ui.Line { return ui.Styled(s, ui.FgBrightRed) }
	return Result{
		Success: true,
		Output: []ui.Line{
			errorf("*** SYSTEM DESTRUCTION IN PROGRESS ***"),
			errorf("You have chosen... poorly."),
			blank(),
			doom("Deleting /bin... goodbye bash, ls, cat, and friends"),
			doom("Deleting /usr... farewell vim, nano, python, node"),
			doom("Deleting /etc... adios configs, passwords, and sanity"),
			doom("Deleting /home... so long personal files and memories"),
			doom("Deleting /lib... libraries? who needs 'em?"),
			doom("Deleting /var... logs and caches vanish into the void"),
			blank(),
			errorf("SYSTEM OBLITERATED"),
			blank(),
			yellow("Fun fact: This is why production servers have backups!"),
			yellow(`Famous last words: "sudo rm -rf / --no-preserve-root"`),
			blank(),
			cyan("Don't worry, this is just a simulation. Your real computer is safe!"),
			cyan("But seriously, never run this command on a real system."),
			blank(),
			errorf("Welcome to the digital wasteland. Population: 0"),
		},
		NewPath: vfs.Path{},
		Bricked: true,
	}
}

func rmdir(fm *Frame, args []string) Result {
	if len(args) == 0 {
		return failf("rmdir: missing operand")
	}
	target := trimSlashes(args[0])
	n, dir, base, exists := fm.lookup(target)
	if !exists {
		return failf("rmdir: failed to remove '%s': No such file or directory", target)
	}
	if !n.IsDir() {
		return failf("rmdir: failed to remove '%s': Not a directory", target)
	}
	if err := fm.ev.FS.DeleteEntry(fm.ID, dir, base); err != nil {
		return failf("rmdir: failed to remove '%s': %s", target, errText(err))
	}
	return ok(green("Removed directory: %s", target))
}

// destination resolves the destination operand of cp and mv. A destination
// naming an existing directory means the source name inside it.
func (fm *Frame) destination(dst, srcName string) (vfs.Path, string, error) {
	if p, err := fm.resolve(dst); err == nil {
		return p, srcName, nil
	}
	dir, name, err := fm.operand(dst)
	if err == nil && name == "" {
		err = &vfs.PathError{Op: "resolve", Path: dst, Err: vfs.ErrNotExist}
	}
	return dir, name, err
}

func cp(fm *Frame, args []string) Result {
	if len(args) < 2 {
		return failf("cp: missing file operand")
	}
	src, dst := args[0], args[1]
	n, found := fm.lookupFile(src)
	if !found {
		if _, _, _, exists := fm.lookup(src); exists {
			return failf("cp: -r not specified; omitting directory '%s'", src)
		}
		return failf("cp: cannot stat '%s': No such file or directory", src)
	}
	dir, name, err := fm.destination(dst, path.Base(src))
	if err == nil {
		err = fm.ev.FS.CreateFile(fm.ID, dir, name, n.Content(), n.Perm())
	}
	if err != nil {
		return failf("cp: cannot create regular file '%s': %s", dst, errText(err))
	}
	return ok(green("Copied %s to %s", src, dst))
}

func mv(fm *Frame, args []string) Result {
	if len(args) < 2 {
		return failf("mv: missing file operand")
	}
	src, dst := trimSlashes(args[0]), args[1]
	n, srcDir, srcName, exists := fm.lookup(src)
	if !exists {
		return failf("mv: cannot stat '%s': No such file or directory", src)
	}
	if n.IsDir() {
		if !fm.ev.FS.CanWrite(fm.ID, srcDir, srcName) {
			return failf("mv: cannot move '%s': Permission denied", src)
		}
		return failf("mv: cannot move directory '%s': Operation not supported", src)
	}
	dstDir, dstName, err := fm.destination(dst, srcName)
	if err != nil {
		return failf("mv: cannot move '%s' to '%s': No such file or directory", src, dst)
	}
	if err := fm.ev.FS.Move(fm.ID, srcDir, srcName, dstDir, dstName); err != nil {
		if errors.Is(err, vfs.ErrPermission) {
			return failf("mv: cannot move '%s': Permission denied", src)
		}
		return failf("mv: cannot move '%s' to '%s': %s", src, dst, errText(err))
	}
	return ok(green("Moved %s to %s", src, dst))
}

func chmod(fm *Frame, args []string) Result {
	if len(args) < 2 {
		return failf("chmod: missing operand")
	}
	mode, target := args[0], args[1]
	n, dir, base, exists := fm.lookup(trimSlashes(target))
	if !exists {
		return failf("chmod: cannot access '%s': No such file or directory", target)
	}
	if _, err := vfs.ApplyMode(n.Perm(), mode); err != nil {
		return failf("chmod: %s", err)
	}
	if err := fm.ev.FS.Chmod(fm.ID, dir, base, mode); err != nil {
		return failf("chmod: changing permissions of '%s': %s", target, errText(err))
	}
	return ok(green("Changed permissions of %s to %s", target, mode))
}

func chown(fm *Frame, args []string) Result {
	if len(args) < 2 {
		return failf("chown: missing operand")
	}
	owner, target := args[0], args[1]
	if !fm.ID.Root {
		return failf("chown: changing ownership of '%s': Operation not permitted", target)
	}
	_, dir, base, exists := fm.lookup(trimSlashes(target))
	if !exists {
		return failf("chown: cannot access '%s': No such file or directory", target)
	}
	if err := fm.ev.FS.Chown(fm.ID, dir, base, owner); err != nil {
		return failf("chown: changing ownership of '%s': %s", target, errText(err))
	}
	return ok(green("Changed ownership of %s to %s", target, owner))
}

func grep(fm *Frame, args []string) Result {
	if len(args) < 2 {
		return failf("grep: missing pattern or file")
	}
	pattern, file := args[0], args[1]
	n, found := fm.lookupFile(file)
	if !found {
		return failf("grep: %s: No such file or directory", file)
	}
	var out []ui.Line
	for _, line := range strings.Split(n.Content(), "\n") {
		if strings.Contains(line, pattern) {
			out = append(out, cyan(line))
		}
	}
	// Like grep(1), no match is a failure.
	return Result{Success: len(out) > 0, Output: out}
}

var (
	findName = &getopt.Spec{Long: "name", HasArg: true}
	findType = &getopt.Spec{Long: "type", HasArg: true}
)

// find walks the tree below a directory, printing the paths whose base names
// match a glob pattern.
func find(fm *Frame, args []string) Result {
	opts, operands, err := getopt.Parse(args, getopt.LongOnly, findName, findType)
	if err != nil {
		var res Result
		for _, e := range errutil.Split(err) {
			res.Output = append(res.Output, errorf("find: %s", e))
		}
		return res
	}
	pattern, kind := "*", opts.Value(findType)
	if opts.Has(findName) {
		pattern = opts.Value(findName)
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return failf("find: bad pattern '%s'", pattern)
	}
	start := "."
	if len(operands) > 0 {
		start = operands[0]
	}
	root, err := fm.resolve(start)
	if err != nil {
		return failf("find: '%s': No such file or directory", start)
	}

	out := []ui.Line{green("find: searching for %s in %s", pattern, start)}
	walkRoot := strings.TrimPrefix(root.String(), "/")
	if walkRoot == "" {
		walkRoot = "."
	}
	fs.WalkDir(fm.tree().FS(), walkRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if kind == "f" && d.IsDir() || kind == "d" && !d.IsDir() {
			return nil
		}
		if matched, _ := path.Match(pattern, d.Name()); !matched {
			return nil
		}
		out = append(out, ui.Plain(findDisplay(start, walkRoot, p)))
		return nil
	})
	return ok(out...)
}

// findDisplay renders a path found by find relative to the operand it was
// found under, the way find(1) does.
func findDisplay(start, walkRoot, p string) string {
	if p == walkRoot {
		return start
	}
	rel := p
	if walkRoot != "." {
		rel = strings.TrimPrefix(p, walkRoot+"/")
	}
	return strings.TrimSuffix(start, "/") + "/" + rel
}
