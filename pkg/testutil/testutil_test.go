package testutil

import "testing"

type cleanups []func()

func (c *cleanups) Cleanup(f func()) { *c = append(*c, f) }

func TestSet(t *testing.T) {
	var c cleanups
	x := "old"
	Set(&c, &x, "new")
	if x != "new" {
		t.Errorf("after Set, x = %q", x)
	}
	for _, f := range c {
		f()
	}
	if x != "old" {
		t.Errorf("after cleanup, x = %q", x)
	}
}
