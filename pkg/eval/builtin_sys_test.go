package eval_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettyokley/termfolio/pkg/eval"
	. "github.com/garrettyokley/termfolio/pkg/eval/evaltest"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

func TestSudo(t *testing.T) {
	Test(t,
		That("sudo").Fails().Prints("sudo: a command must be specified"),
		That("sudo ls").PrintsNothing(),
		That("sudo rm -rf / && pwd").PrintsNothing(),
	)

	ev := NewEvaler(t)
	fm := eval.Frame{Cwd: vfs.ParsePath("/etc"), ID: vfs.Identity{User: ev.Seed.User}}
	for _, tc := range []struct {
		line string
		want string
	}{
		{"sudo ls -l", "ls -l"},
		{`sudo touch "a b"`, `touch "a b"`},
		{`sudo echo 'say "hi"'`, `echo 'say "hi"'`},
		{`sudo echo ""`, `echo ""`},
	} {
		res := ev.Eval(tc.line, fm)
		want := &eval.PasswordRequest{Command: tc.want, Path: vfs.ParsePath("/etc")}
		if diff := cmp.Diff(want, res.Password); diff != "" {
			t.Errorf("Eval(%q) password request (-want +got):\n%s", tc.line, diff)
		}
		// The pending command must tokenize back to the same words.
		_, wantArgs := eval.Tokenize(tc.line)
		name, args := eval.Tokenize(res.Password.Command)
		if diff := cmp.Diff(wantArgs, append([]string{name}, args...)); diff != "" {
			t.Errorf("Tokenize(%q) (-want +got):\n%s", res.Password.Command, diff)
		}
	}
}

func TestSu(t *testing.T) {
	Test(t,
		That("su").Prints("Password: ", "Switching to root user..."),
		That("su").Then("whoami").PrintsSome("root"),
		That("su root && whoami").Prints("Password: ", "Switching to root user...", "root"),
		That("su alice && whoami").Prints("Password: ", "Switching to user: alice", "alice"),
		That("su && mount").PrintsSome("/dev/sda1"),
	)
}

func TestPsKill(t *testing.T) {
	Test(t,
		That("ps").PrintsSome("PID TTY", "portfolio-app"),
		That("kill").Fails().Prints("kill: missing process ID"),
		That("kill 1234").Prints("Terminated process 1234"),
	)
}

func TestRootOnlyCommands(t *testing.T) {
	Test(t,
		That("mount").Fails().Prints("mount: only root can do that"),
		That("mount").AsRoot().PrintsSome("Filesystem", "tmpfs"),
		That("umount").Fails().Prints("umount: missing operand"),
		That("umount").AsRoot().Fails().Prints("umount: missing operand"),
		That("umount /mnt").Fails().Prints("umount: only root can do that"),
		That("umount /mnt").AsRoot().Prints("Unmounted /mnt"),
		That("fdisk -l").Fails().Prints("fdisk: cannot open /dev/sda: Permission denied"),
		That("fdisk -l").AsRoot().PrintsSome("Disk /dev/sda: 20 GiB"),
		That("iptables -L").Fails().Prints("iptables: Permission denied"),
		That("iptables -L").AsRoot().Prints(
			"Chain INPUT (policy ACCEPT)",
			"target     prot opt source               destination",
			"",
			"Chain FORWARD (policy ACCEPT)",
			"target     prot opt source               destination",
			"",
			"Chain OUTPUT (policy ACCEPT)",
			"target     prot opt source               destination"),
	)
}
