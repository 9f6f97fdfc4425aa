package eval

import (
	"strings"

	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var sysCommands = map[string]CommandFunc{
	"sudo":     sudo,
	"su":       su,
	"ps":       ps,
	"kill":     kill,
	"mount":    rootOnly("mount: only root can do that", mount),
	"umount":   umount,
	"fdisk":    rootOnly("fdisk: cannot open /dev/sda: Permission denied", fdisk),
	"iptables": rootOnly("iptables: Permission denied", iptables),
}

// rootOnly wraps a command that fails with a fixed message unless run by
// root.
func rootOnly(denied string, f CommandFunc) CommandFunc {
	return func(fm *Frame, args []string) Result {
		if !fm.ID.Root {
			return fail(ui.Error(denied))
		}
		return f(fm, args)
	}
}

// sudo does not run anything itself; it asks the session for the password.
func sudo(fm *Frame, args []string) Result {
	if len(args) == 0 {
		return failf("sudo: a command must be specified")
	}
	return Result{
		Success:  true,
		Password: &PasswordRequest{Command: quoteArgs(args), Path: fm.Cwd.Join()},
	}
}

// quoteArgs joins words back into a command line that tokenizes to the same
// words.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			q := `"`
			if strings.Contains(arg, `"`) {
				q = "'"
			}
			arg = q + arg + q
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}

func su(fm *Frame, args []string) Result {
	user := "root"
	if len(args) > 0 {
		user = args[0]
	}
	res := ok(yellow("Password: "))
	var id vfs.Identity
	if user == "root" {
		res.Output = append(res.Output, green("Switching to root user..."))
		id = vfs.Identity{User: "root", Root: true}
	} else {
		res.Output = append(res.Output, green("Switching to user: %s", user))
		id = vfs.Identity{User: user}
	}
	res.Identity = &id
	return res
}

func ps(fm *Frame, args []string) Result {
	return ok(ui.Lines(
		"  PID TTY          TIME CMD",
		" 1234 pts/0    00:00:01 bash",
		" 1235 pts/0    00:00:00 vim",
		" 1236 pts/0    00:00:00 node",
		" 1237 pts/0    00:00:00 portfolio-app",
	)...)
}

func kill(fm *Frame, args []string) Result {
	if len(args) == 0 {
		return failf("kill: missing process ID")
	}
	return ok(green("Terminated process %s", args[0]))
}

func mount(fm *Frame, args []string) Result {
	return ok(ui.Lines(
		"Filesystem      Size  Used Avail Use% Mounted on",
		"/dev/sda1        20G  5.5G   14G  30% /",
		"tmpfs           2.0G     0  2.0G   0% /dev/shm",
	)...)
}

func umount(fm *Frame, args []string) Result {
	if len(args) == 0 {
		return failf("umount: missing operand")
	}
	if !fm.ID.Root {
		return failf("umount: only root can do that")
	}
	return ok(green("Unmounted %s", args[0]))
}

func fdisk(fm *Frame, args []string) Result {
	return ok(ui.Lines(
		"Disk /dev/sda: 20 GiB, 21474836480 bytes, 41943040 sectors",
		"Units: sectors of 1 * 512 = 512 bytes",
		"Sector size (logical/physical): 512 bytes / 512 bytes",
		"",
		"Device     Start      End  Sectors  Size Type",
		"/dev/sda1   2048 41943039 41940992   20G Linux filesystem",
	)...)
}

func iptables(fm *Frame, args []string) Result {
	var lines []string
	for i, chain := range []string{"INPUT", "FORWARD", "OUTPUT"} {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Chain "+chain+" (policy ACCEPT)",
			"target     prot opt source               destination")
	}
	return ok(ui.Lines(lines...)...)
}
