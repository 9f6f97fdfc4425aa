package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/garrettyokley/termfolio/pkg/getopt"
	"github.com/garrettyokley/termfolio/pkg/resume"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var navCommands = map[string]CommandFunc{
	"cd":     cd,
	"pwd":    pwd,
	"ls":     ls,
	"cat":    cat,
	"echo":   echo,
	"clear":  clearScreen,
	"whoami": whoami,
	"date":   date,
}

func cd(fm *Frame, args []string) Result {
	arg := joinOperand(args)
	p, err := fm.resolve(arg)
	if err != nil {
		return failf("cd: no such file or directory: %s", arg)
	}
	return Result{Success: true, NewPath: p}
}

func pwd(fm *Frame, args []string) Result {
	return ok(cyan(fm.Cwd.String()))
}

func echo(fm *Frame, args []string) Result {
	return ok(ui.Styled(strings.Join(args, " "), ui.FgGreen, ui.Dim))
}

func clearScreen(fm *Frame, args []string) Result {
	return Result{Success: true, Clear: true}
}

func whoami(fm *Frame, args []string) Result {
	return ok(cyan(fm.ID.Name()))
}

func date(fm *Frame, args []string) Result {
	return ok(ui.Styled(fm.ev.Now().Format("Mon Jan _2 2006 15:04:05 GMT-0700 (MST)"), ui.FgWhite))
}

var (
	lsAll      = &getopt.Spec{Short: 'a', Long: "all"}
	lsAlmost   = &getopt.Spec{Short: 'A', Long: "almost-all"}
	lsLong     = &getopt.Spec{Short: 'l'}
	lsClassify = &getopt.Spec{Short: 'F', Long: "classify"}
	lsColumns  = &getopt.Spec{Short: 'C'}
	lsSpecs    = []*getopt.Spec{lsAll, lsAlmost, lsLong, lsClassify, lsColumns}
)

// Used in long listings for entries without a modification time.
const lsFixedDate = "Dec  5 12:34"

func ls(fm *Frame, args []string) Result {
	// Unknown options are ignored.
	opts, operands, _ := getopt.Parse(args, getopt.GNU, lsSpecs...)
	showAll := opts.Has(lsAll)
	showHidden := showAll || opts.Has(lsAlmost)
	long := opts.Has(lsLong)

	dirPath := fm.Cwd
	if len(operands) > 0 {
		arg := joinOperand(operands)
		p, err := fm.resolve(arg)
		if err != nil {
			if n, found := fm.lookupFile(arg); found {
				if long {
					return ok(lsLongLine(n, arg))
				}
				return ok(lsName(n, arg))
			}
			return failf("ls: cannot access '%s': No such file or directory", arg)
		}
		dirPath = p
	}
	tree := fm.tree()
	dir, err := tree.Dir(dirPath)
	if err != nil {
		return failf("ls: cannot access '%s': No such file or directory", dirPath)
	}

	var out []ui.Line
	var dots []ui.Line
	if showAll {
		dots = append(dots, lsDot(long, dir, "."))
		if !dirPath.IsRoot() {
			parent, _ := tree.Dir(dirPath.Parent())
			dots = append(dots, lsDot(long, parent, ".."))
		}
	}
	var regular []ui.Line
	visible := 0
	for _, name := range dir.Names() {
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasPrefix(name, ".") {
			visible++
		}
		n, _ := dir.Child(name)
		if long {
			regular = append(regular, lsLongLine(n, name))
		} else {
			regular = append(regular, lsName(n, name))
		}
	}
	if long && len(regular) > 0 {
		out = append(out, ui.Plain(fmt.Sprintf("total %d", visible)))
	}
	out = append(out, dots...)
	out = append(out, regular...)
	if len(out) == 0 {
		out = append(out, ui.Styled("(empty directory)", ui.FgWhite))
	}
	return ok(out...)
}

func lsDot(long bool, n *vfs.Node, name string) ui.Line {
	if long && n != nil {
		return ui.Line{Kind: ui.NormalLine, Text: ui.T(lsLongPrefix(n)).Concat(ui.T(name, ui.FgWhite))}
	}
	return ui.Styled(name, ui.FgWhite)
}

func lsName(n *vfs.Node, name string) ui.Line {
	return ui.Line{Kind: ui.NormalLine, Text: coloredName(n, name)}
}

func lsLongLine(n *vfs.Node, name string) ui.Line {
	return ui.Line{Kind: ui.NormalLine, Text: ui.T(lsLongPrefix(n)).Concat(coloredName(n, name))}
}

func lsLongPrefix(n *vfs.Node) string {
	size := n.Size()
	if n.IsDir() {
		size = 4096
	}
	date := lsFixedDate
	if t := n.ModTime(); !t.IsZero() {
		date = t.Format("Jan _2 15:04")
	}
	return fmt.Sprintf("%s 1 %s %s %8d %s ", n.Perm(), n.Owner(), n.Group(), size, date)
}

// coloredName renders an entry name: directories in cyan with a trailing
// slash, scripts in green and other files in white.
func coloredName(n *vfs.Node, name string) ui.Text {
	switch {
	case n.IsDir():
		return ui.T(name+"/", ui.FgCyan)
	case strings.HasPrefix(n.Content(), "#!/"):
		return ui.T(name, ui.FgGreen)
	default:
		return ui.T(name, ui.FgWhite)
	}
}

func cat(fm *Frame, args []string) Result {
	name := joinOperand(args)
	if name == "" {
		return failf("cat: missing operand")
	}
	if fm.isResume(name) {
		return Result{Success: true, Deferred: fm.fetchResume("cat", name)}
	}
	n, found := fm.lookupFile(name)
	if !found {
		return failf("cat: %s: No such file or directory", name)
	}
	return Result{Success: true, Output: contentLines(n.Content())}
}

// contentLines splits file content into output lines. Empty content is one
// empty line.
func contentLines(content string) []ui.Line {
	return ui.Lines(strings.Split(strings.TrimSuffix(content, "\n"), "\n")...)
}

// isResume reports whether a file operand names the résumé file, either by
// its bare name or by a path leading to ~/Documents.
func (fm *Frame) isResume(name string) bool {
	file := fm.ev.Seed.Resume.File
	if file == "" {
		return false
	}
	if name == file {
		return true
	}
	dir, base, err := fm.operand(name)
	return err == nil && base == file && dir.Equal(fm.home().Join("Documents"))
}

// fetchResume returns the Deferred output of printing the résumé text.
func (fm *Frame) fetchResume(cmd, name string) *Deferred {
	f := fm.ev.Resume
	if f == nil {
		docs := fm.home().Join("Documents", fm.ev.Seed.Resume.File)
		rel := strings.TrimPrefix(docs.String(), "/")
		f = resume.Instrument("tree", resume.FSFetcher{FS: fm.tree().FS(), Name: rel})
	}
	return NewDeferred(func(ctx context.Context) []ui.Line {
		text, err := f.Fetch(ctx)
		switch {
		case err == nil:
			return contentLines(text)
		case resume.IsStatusError(err):
			return []ui.Line{errorf("%s: %s: Unable to fetch resume content", cmd, name)}
		default:
			return []ui.Line{errorf("%s: %s: Network error while fetching content", cmd, name)}
		}
	})
}
