// Package testutil holds helpers shared by tests.
package testutil

// Set stubs *p with v for the rest of the test, such as a clock or a delay,
// and puts the old value back on cleanup. t is normally a *testing.T.
func Set[T any](t interface{ Cleanup(func()) }, p *T, v T) {
	saved := *p
	t.Cleanup(func() { *p = saved })
	*p = v
}
