// Package errutil combines the errors of commands that report several
// problems at once, such as an rm with many operands.
package errutil

import "strings"

// Multi combines errs into one error. Nil errors are dropped, and errors that
// are themselves combined are flattened. It returns nil when nothing is left,
// and the error itself when exactly one is left.
//
// The message of a combined error has one line per error, which is how
// commands print them.
func Multi(errs ...error) error {
	var flat errorList
	for _, err := range errs {
		flat = append(flat, Split(err)...)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return flat
}

// Split undoes Multi: it returns the errors combined in err, err itself if
// it was not combined, or nil if it is nil.
func Split(err error) []error {
	switch err := err.(type) {
	case nil:
		return nil
	case errorList:
		return append([]error(nil), err...)
	}
	return []error{err}
}

type errorList []error

func (l errorList) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (l errorList) Unwrap() []error { return l }
