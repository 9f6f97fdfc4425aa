package eval_test

import (
	"context"
	"testing"

	"github.com/garrettyokley/termfolio/pkg/eval"
	. "github.com/garrettyokley/termfolio/pkg/eval/evaltest"
	"github.com/garrettyokley/termfolio/pkg/tt"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

func TestEval_Dispatch(t *testing.T) {
	Test(t,
		That("").PrintsNothing(),
		That("   ").PrintsNothing(),
		That("frobnicate now").Fails().Prints("bash: command not found: frobnicate"),
		That("PWD").Prints("/home/garrettyokley"),
		That("WhoAmI").Prints("garrettyokley"),
		// Lookup ignores case; the message keeps the name as typed.
		That("Frobnicate").Fails().Prints("bash: command not found: Frobnicate"),
	)
}

func TestEval_Aliases(t *testing.T) {
	Test(t,
		That("l").In("/home/garrettyokley/Documents").
			Prints("Certs/", "Education/", "Garrett Yokley.pdf", "Links/", "Projects/"),
		That("la").In("/etc/ssh").Prints("sshd_config"),
		That("ll").In("/etc/ssh").PrintsSome("total 1", ".", "..", "sshd_config"),
		// Only a leading alias is expanded.
		That("echo ll").Prints("ll"),
		// An alias must be a whole word.
		That("lsx").Fails().Prints("bash: command not found: lsx"),
	)
}

func TestEval_Chains(t *testing.T) {
	Test(t,
		That("cd .. && pwd").Prints("/home").EndsIn("/home"),
		That("cd Documents && cd .. && pwd").Prints("/home/garrettyokley"),
		// The chain stops at the first failure, but earlier directory
		// changes are kept.
		That("cd Documents && cd nowhere && pwd").Fails().
			Prints("cd: no such file or directory: nowhere").
			EndsIn("/home/garrettyokley/Documents"),
		That("cd .. && cd garrettyokley && cd Documents").
			EndsIn("/home/garrettyokley/Documents"),
		That("mkdir proj && touch proj/a.txt && cat proj/a.txt").
			Prints("Created directory: proj", "Created file: proj/a.txt", ""),
		That("su && whoami").PrintsSome("root"),
		// A password prompt ends the chain.
		That("sudo ls && pwd").PrintsNothing(),
	)
}

func TestEval_RemovedWorkingDirectory(t *testing.T) {
	Test(t,
		That("mkdir a && cd a && rm -r ../a && pwd").
			Prints("Created directory: a", "Removed: ../a", "/home/garrettyokley").
			EndsIn("/home/garrettyokley"),
		That("rm -r ~/Documents/Projects").In("/home/garrettyokley/Documents/Projects").
			EndsIn("/home/garrettyokley/Documents"),
		That("mkdir a").Then("cd a").Then("rm -r ~/a").Then("ls").
			PrintsSome("Documents/").EndsIn("/home/garrettyokley"),
	)
}

func TestEval_PathIsCommittedAfterChain(t *testing.T) {
	ev := NewEvaler(t)
	fm := eval.Frame{Cwd: ev.Seed.Home, ID: vfs.Identity{User: ev.Seed.User}}
	res := ev.Eval("cd Documents && cd ..", fm)
	if res.NewPath != nil {
		t.Errorf("got NewPath %v for a chain that returns to the start", res.NewPath)
	}
	if !fm.Cwd.Equal(ev.Seed.Home) {
		t.Errorf("Eval modified the frame")
	}
	res = ev.Eval("cd Documents && cd Certs", fm)
	if got := res.NewPath.String(); got != "/home/garrettyokley/Documents/Certs" {
		t.Errorf("got NewPath %s", got)
	}
}

func TestEval_DeferredOutputKeepsOrder(t *testing.T) {
	ev := NewEvaler(t)
	fm := eval.Frame{Cwd: ev.Seed.Home, ID: vfs.Identity{User: ev.Seed.User}}
	res := ev.Eval(`echo before && cat "Documents/Garrett Yokley.pdf" && echo after`, fm)
	if len(res.Output) != 1 || res.Output[0].String() != "before" {
		t.Errorf("got immediate output %v", res.Output)
	}
	if res.Deferred == nil {
		t.Fatal("no deferred output")
	}
	lines := res.Deferred.Await(context.Background())
	if first := lines[0].String(); first != "Garrett Yokley – Systems Administrator" {
		t.Errorf("got first deferred line %q", first)
	}
	if last := lines[len(lines)-1].String(); last != "after" {
		t.Errorf("got last deferred line %q", last)
	}
}

func TestEval_RecoversFromPanics(t *testing.T) {
	Test(t,
		That("boom").Fails().Prints("bash: boom: internal error").
			WithSetup(func(ev *eval.Evaler) {
				ev.AddCommand("boom", eval.CommandFunc(func(*eval.Frame, []string) eval.Result {
					panic("boom")
				}))
			}),
	)
}

func TestCommandNames(t *testing.T) {
	names := NewEvaler(t).CommandNames()
	for _, want := range []string{"cd", "ls", "xdg-open", "security-plus", "certs", "help", "vim"} {
		found := false
		for _, name := range names {
			found = found || name == want
		}
		if !found {
			t.Errorf("CommandNames() missing %q", want)
		}
	}
}

func TestTokenize(t *testing.T) {
	tt.Test(t, tt.Fn("Tokenize", eval.Tokenize), tt.Table{
		tt.Args("").Rets("", []string(nil)),
		tt.Args("ls -la  /etc").Rets("ls", []string{"-la", "/etc"}),
		tt.Args(`cat "Garrett Yokley.pdf"`).Rets("cat", []string{"Garrett Yokley.pdf"}),
		tt.Args(`xdg-open 'Linux+, CompTIA.pdf'`).Rets("xdg-open", []string{"Linux+, CompTIA.pdf"}),
		tt.Args(`cat ~/"My Docs"/a`).Rets("cat", []string{"~/My Docs/a"}),
		tt.Args(`echo "unclosed quote`).Rets("echo", []string{"unclosed quote"}),
		tt.Args(`echo ""`).Rets("echo", []string{""}),
	})
}

func TestExpandAliases(t *testing.T) {
	tt.Test(t, tt.Fn("ExpandAliases", eval.ExpandAliases), tt.Table{
		tt.Args("ll").Rets("ls -alF"),
		tt.Args("la /etc").Rets("ls -A /etc"),
		tt.Args("l").Rets("ls -CF"),
		tt.Args("less").Rets("less"),
		tt.Args("echo ll").Rets("echo ll"),
	})
}

func TestUnquote(t *testing.T) {
	tt.Test(t, tt.Fn("Unquote", eval.Unquote), tt.Table{
		tt.Args(`"a b"`).Rets("a b"),
		tt.Args(`'a'`).Rets("a"),
		tt.Args(`"Gar`).Rets("Gar"),
		tt.Args(`plain`).Rets("plain"),
		tt.Args(`"`).Rets(""),
	})
}

func TestDeferred_Chained(t *testing.T) {
	d := eval.NewDeferred(func(context.Context) []ui.Line { return ui.Lines("a") })
	if got := d.Await(context.Background()); len(got) != 1 || got[0].String() != "a" {
		t.Errorf("got %v", got)
	}
}
