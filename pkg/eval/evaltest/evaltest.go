// Package evaltest provides a framework for testing builtin commands.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("cd ..").Then("pwd").Prints("/home"),
//	    That("touch /etc/x").Fails().PrintsSome("Permission denied"))
//
// Each test case runs in a fresh session seeded with the built-in seed, as
// the home user in the home directory. The commands of a case run one after
// another, with the working path and identity threaded through them.
package evaltest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

// Now is the time returned by the clock of the Evaler used in tests.
var Now = time.Date(2024, 12, 5, 12, 34, 0, 0, time.UTC)

// Case is a test case that can be used in Test.
type Case struct {
	lines  []string
	root   bool
	cwd    string
	setup  func(ev *eval.Evaler)
	verify func(t *testing.T, ev *eval.Evaler)
	want   result
}

type result struct {
	output   []string
	contains []string
	fails    bool
	path     *string
	navigate []string
	bricked  bool
}

// That returns a new Case with the given command line.
func That(line string) Case {
	return Case{lines: []string{line}}
}

// Then returns a new Case that evaluates the given command line in addition,
// in the state left by the previous ones.
func (c Case) Then(line string) Case {
	c.lines = append(c.lines, line)
	return c
}

// AsRoot returns an altered Case that runs as root.
func (c Case) AsRoot() Case {
	c.root = true
	return c
}

// In returns an altered Case that starts in the given directory.
func (c Case) In(path string) Case {
	c.cwd = path
	return c
}

// WithSetup returns an altered Case that runs the setup function on the
// Evaler before the commands are evaluated.
func (c Case) WithSetup(f func(*eval.Evaler)) Case {
	c.setup = f
	return c
}

// Passes returns an altered Case that runs an additional verification
// function.
func (c Case) Passes(f func(t *testing.T, ev *eval.Evaler)) Case {
	c.verify = f
	return c
}

// Prints returns an altered Case that requires the output, with styles
// removed, to be exactly the given lines.
func (c Case) Prints(lines ...string) Case {
	if lines == nil {
		lines = []string{}
	}
	c.want.output = lines
	return c
}

// PrintsNothing returns an altered Case that requires no output.
func (c Case) PrintsNothing() Case { return c.Prints() }

// PrintsSome returns an altered Case that requires the output to contain all
// of the given strings.
func (c Case) PrintsSome(subs ...string) Case {
	c.want.contains = append(c.want.contains, subs...)
	return c
}

// Fails returns an altered Case that requires the last command line to
// report failure. Without it, the last command line must succeed.
func (c Case) Fails() Case {
	c.want.fails = true
	return c
}

// EndsIn returns an altered Case that requires the working path after the
// last command line to be the given path.
func (c Case) EndsIn(path string) Case {
	c.want.path = &path
	return c
}

// Navigates returns an altered Case that requires exactly the given
// navigation targets to be requested.
func (c Case) Navigates(targets ...string) Case {
	if targets == nil {
		targets = []string{}
	}
	c.want.navigate = targets
	return c
}

// Bricks returns an altered Case that requires the filesystem to be wiped.
func (c Case) Bricks() Case {
	c.want.bricked = true
	return c
}

var (
	seedOnce sync.Once
	seed     *vfs.Seed
	seedErr  error
)

// Seed returns the built-in seed, decoded once.
func Seed(t testing.TB) *vfs.Seed {
	t.Helper()
	seedOnce.Do(func() { seed, seedErr = vfs.DefaultSeed() })
	if seedErr != nil {
		t.Fatalf("decode built-in seed: %v", seedErr)
	}
	return seed
}

// NewEvaler returns an Evaler on a fresh filesystem built from the built-in
// seed, with its clock stopped at Now.
func NewEvaler(t testing.TB) *eval.Evaler {
	t.Helper()
	s := Seed(t)
	ev := eval.NewEvaler(vfs.New(s.Tree(), s.Home), s)
	ev.Now = func() time.Time { return Now }
	return ev
}

// Test runs test cases.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(strings.Join(tc.lines, "; "), func(t *testing.T) {
			t.Helper()
			ev := NewEvaler(t)
			if tc.setup != nil {
				tc.setup(ev)
			}
			fm := eval.Frame{Cwd: ev.Seed.Home, ID: vfs.Identity{User: ev.Seed.User, Root: tc.root}}
			if tc.cwd != "" {
				fm.Cwd = vfs.ParsePath(tc.cwd)
			}

			var (
				output   []string
				navigate []string
				last     eval.Result
				bricked  bool
			)
			for _, line := range tc.lines {
				last = ev.Eval(line, fm)
				for _, l := range last.Output {
					output = append(output, l.String())
				}
				if last.Deferred != nil {
					for _, l := range last.Deferred.Await(context.Background()) {
						output = append(output, l.String())
					}
				}
				for _, n := range last.Navigate {
					navigate = append(navigate, n.Target)
				}
				if last.NewPath != nil {
					fm.Cwd = last.NewPath
				}
				if last.Identity != nil {
					fm.ID = *last.Identity
				}
				bricked = bricked || last.Bricked
			}

			if tc.verify != nil {
				tc.verify(t, ev)
			}
			if tc.want.output != nil && !cmp.Equal(tc.want.output, output, cmpopts.EquateEmpty()) {
				t.Errorf("got output (-want +got):\n%s", cmp.Diff(tc.want.output, output))
			}
			joined := strings.Join(output, "\n")
			for _, sub := range tc.want.contains {
				if !strings.Contains(joined, sub) {
					t.Errorf("got output %q, want output containing %q", joined, sub)
				}
			}
			if last.Success == tc.want.fails {
				t.Errorf("got success %v, want %v (output %q)", last.Success, !tc.want.fails, joined)
			}
			if tc.want.path != nil && fm.Cwd.String() != *tc.want.path {
				t.Errorf("got path %s, want %s", fm.Cwd, *tc.want.path)
			}
			if tc.want.navigate != nil && !cmp.Equal(tc.want.navigate, navigate, cmpopts.EquateEmpty()) {
				t.Errorf("got navigation (-want +got):\n%s", cmp.Diff(tc.want.navigate, navigate))
			}
			if bricked != tc.want.bricked {
				t.Errorf("got bricked %v, want %v", bricked, tc.want.bricked)
			}
		})
	}
}
