// Package tt runs table-driven tests of plain functions:
//
//	tt.Test(t, tt.Fn("Abbrev", Path.Abbrev), tt.Table{
//		tt.Args(vfs.Path{"home", "garrettyokley"}, home).Rets("~"),
//	})
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Table is a list of cases.
type Table []*Case

// Case is a call of the tested function and the results it should return.
type Case struct {
	args []any
	rets []any
}

// Args starts a Case calling the function with args. A nil arg passes the
// zero value of the parameter.
func Args(args ...any) *Case { return &Case{args: args} }

// Rets sets the wanted results and returns c. A wanted result may be a
// Matcher; otherwise it is compared with cmp.Equal, errors by message.
func (c *Case) Rets(rets ...any) *Case {
	c.rets = rets
	return c
}

// Func is a named function under test.
type Func struct {
	name string
	fn   reflect.Value
}

// Fn names fn for failure messages.
func Fn(name string, fn any) Func { return Func{name, reflect.ValueOf(fn)} }

// T is the part of *testing.T that Test uses.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test calls f for each case in table and reports mismatched results.
func Test(t T, f Func, table Table) {
	t.Helper()
	for _, c := range table {
		got := f.call(c.args)
		if len(got) != len(c.rets) {
			t.Errorf("%s(%s) returns %d values, case wants %d",
				f.name, join(c.args), len(got), len(c.rets))
			continue
		}
		for i, want := range c.rets {
			if !matches(want, got[i]) {
				t.Errorf("%s(%s) returns (-want +got):\n%s",
					f.name, join(c.args), cmp.Diff(c.rets, got, errorsByMessage))
				break
			}
		}
	}
}

// Matcher decides whether a result is acceptable, for results that cannot be
// compared exactly.
type Matcher interface{ Match(got any) bool }

// String matches results whose printed form contains sub.
func String(sub string) Matcher { return containing(sub) }

type containing string

func (c containing) Match(got any) bool { return strings.Contains(fmt.Sprint(got), string(c)) }

func matches(want, got any) bool {
	if m, ok := want.(Matcher); ok {
		return m.Match(got)
	}
	return cmp.Equal(want, got, errorsByMessage)
}

var errorsByMessage = cmp.Comparer(func(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Error() == b.Error()
})

func (f Func) call(args []any) []any {
	typ := f.fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg != nil {
			in[i] = reflect.ValueOf(arg)
			continue
		}
		param := typ.NumIn() - 1
		if !typ.IsVariadic() || i < param {
			in[i] = reflect.Zero(typ.In(i))
		} else {
			in[i] = reflect.Zero(typ.In(param).Elem())
		}
	}
	out := f.fn.Call(in)
	rets := make([]any, len(out))
	for i, v := range out {
		rets[i] = v.Interface()
	}
	return rets
}

func join(args []any) string {
	s := make([]string, len(args))
	for i, arg := range args {
		s[i] = fmt.Sprint(arg)
	}
	return strings.Join(s, ", ")
}
