// Package prog runs the termfolio binary: it parses flags, configures logging
// and hands over to a [Program]. The binary is the [Composite] of the
// buildinfo program and the shell program.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/garrettyokley/termfolio/pkg/logutil"
)

// Program represents a subprogram.
type Program interface {
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram.
	Run(fds [3]*os.File, args []string) error
}

// FlagSet wraps a [flag.FlagSet] to provide flags shared by several
// subprograms.
type FlagSet struct {
	*flag.FlagSet
	json *bool
}

// JSON returns a pointer to the value of the -json flag, registering it on
// first use.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo or -version in JSON")
		fs.json = &json
	}
	return fs.json
}

// EnvPrefix prefixes the environment variables that supply flag defaults:
// TERMFOLIO_SEED for -seed, TERMFOLIO_LOG_LEVEL for -log-level and so on.
// Flags on the command line win.
const EnvPrefix = "TERMFOLIO_"

// Run parses the flags in args and runs p, returning the exit status.
func Run(fds [3]*os.File, args []string, p Program) int {
	fs := flag.NewFlagSet("termfolio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var logFile, logLevel string
	var help bool
	fs.StringVar(&logFile, "log", "", "Write the debug log to the given file")
	fs.StringVar(&logLevel, "log-level", "debug",
		"Minimal level of the debug log (debug, info, warn, error)")
	fs.BoolVar(&help, "help", false, "Show usage help and quit")
	p.RegisterFlags(&FlagSet{FlagSet: fs})

	// Stops with status 2 after printing msg and the usage.
	badUsage := func(msg ...any) int {
		fmt.Fprintln(fds[2], msg...)
		usage(fds[2], fs)
		return 2
	}
	if err := setFromEnv(fs, os.LookupEnv); err != nil {
		return badUsage(err)
	}
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			// Only -h gets here, -help being defined.
			return badUsage("flag provided but not defined: -h")
		}
		return badUsage(err)
	}
	if logFile != "" {
		if err := logutil.SetOutputFile(logFile); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}
	if err := logutil.SetLevel(logLevel); err != nil {
		return badUsage("bad -log-level:", err)
	}
	if help {
		usage(fds[1], fs)
		return 0
	}

	err := p.Run(fds, fs.Args())
	var exit exitError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNextProgram):
		fmt.Fprintln(fds[2], "internal error: no suitable subprogram")
		return 2
	case errors.As(err, new(badUsageError)):
		return badUsage(err)
	case errors.As(err, &exit):
		return exit.exit
	}
	fmt.Fprintln(fds[2], err)
	return 2
}

// setFromEnv sets every flag whose variable is in the environment.
func setFromEnv(fs *flag.FlagSet, lookup func(string) (string, bool)) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := lookup(name); ok && err == nil {
			if e := fs.Set(f.Name, v); e != nil {
				err = fmt.Errorf("bad $%s: %w", name, e)
			}
		}
	})
	return err
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: termfolio [flags]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}

// Composite returns a Program made up from other programs. The programs are
// tried in order until one of them does not return [ErrNextProgram].
func Composite(programs ...Program) Program {
	return composite(programs)
}

type composite []Program

func (cp composite) RegisterFlags(f *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(f)
	}
}

func (cp composite) Run(fds [3]*os.File, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, args)
		if !errors.Is(err, ErrNextProgram) {
			return err
		}
	}
	return ErrNextProgram
}

// ErrNextProgram is a special error that may be returned by [Program.Run] that
// is part of a [Composite] program, indicating that the next program should be
// tried.
var ErrNextProgram = errors.New("next program")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
