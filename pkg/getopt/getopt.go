// Package getopt parses the options of builtin commands, such as "ls -alF",
// "rm -rf --no-preserve-root" and "find . -name '*.pdf'".
//
// Options may appear anywhere among the operands; "--" ends them.
package getopt

import (
	"fmt"
	"strings"

	"github.com/garrettyokley/termfolio/pkg/errutil"
)

// Spec declares an option.
type Spec struct {
	// Short name, or 0 for none.
	Short rune
	// Long name, or "" for none.
	Long string
	// Whether the option takes a value: "-w80", "-w 80", "--width=80" or
	// "--width 80".
	HasArg bool
}

func (s *Spec) String() string {
	if s.Long != "" {
		return "--" + s.Long
	}
	return "-" + string(s.Short)
}

// Style selects how an argument starting with a single dash is read.
type Style uint8

const (
	// GNU reads "-abc" as the short options a, b and c.
	GNU Style = iota
	// LongOnly reads "-abc" as the long option abc, like find(1).
	LongOnly
)

// Options holds parsed options.
type Options struct {
	values map[*Spec]string
	// Unknown options as written, such as "-z" or "--zap".
	Unknown []string
}

// Has reports whether the option was given.
func (o *Options) Has(s *Spec) bool {
	_, ok := o.values[s]
	return ok
}

// Value returns the value of the option. When the option is given several
// times, the last value wins.
func (o *Options) Value(s *Spec) string { return o.values[s] }

// Parse parses args against specs. The options and operands are complete
// even when an error is returned, so commands that ignore bad options can
// carry on. Each problem is a separate error, combined with errutil.Multi.
func Parse(args []string, style Style, specs ...*Spec) (*Options, []string, error) {
	opts := &Options{values: make(map[*Spec]string)}
	var operands []string
	var errs []error
	for i := 0; i < len(args); i++ {
		arg := args[i]
		// Takes the next argument as the value of spec, written as name.
		value := func(spec *Spec, name string) {
			if i+1 < len(args) {
				i++
				opts.values[spec] = args[i]
			} else {
				errs = append(errs, fmt.Errorf("option '%s' requires an argument", name))
			}
		}
		switch {
		case arg == "--":
			operands = append(operands, args[i+1:]...)
			i = len(args)
		case strings.HasPrefix(arg, "--"):
			spec, v, hasV := findLong(arg[2:], specs)
			switch {
			case spec == nil:
				opts.Unknown = append(opts.Unknown, arg)
				errs = append(errs, fmt.Errorf("unrecognized option '%s'", arg))
			case hasV:
				opts.values[spec] = v
			case spec.HasArg:
				value(spec, arg)
			default:
				opts.values[spec] = ""
			}
		case len(arg) > 1 && arg[0] == '-' && style == LongOnly:
			spec, v, hasV := findLong(arg[1:], specs)
			switch {
			case spec == nil:
				opts.Unknown = append(opts.Unknown, arg)
				errs = append(errs, fmt.Errorf("unknown predicate '%s'", arg))
			case hasV:
				opts.values[spec] = v
			case spec.HasArg:
				value(spec, arg)
			default:
				opts.values[spec] = ""
			}
		case len(arg) > 1 && arg[0] == '-':
			for j, r := range arg[1:] {
				spec := findShort(r, specs)
				if spec == nil {
					opts.Unknown = append(opts.Unknown, "-"+string(r))
					errs = append(errs, fmt.Errorf("invalid option -- '%c'", r))
					continue
				}
				if !spec.HasArg {
					opts.values[spec] = ""
					continue
				}
				// The rest of the cluster is the value.
				if rest := arg[1+j+len(string(r)):]; rest != "" {
					opts.values[spec] = rest
				} else {
					value(spec, "-"+string(r))
				}
				break
			}
		default:
			operands = append(operands, arg)
		}
	}
	return opts, operands, errutil.Multi(errs...)
}

func findShort(r rune, specs []*Spec) *Spec {
	for _, s := range specs {
		if s.Short != 0 && s.Short == r {
			return s
		}
	}
	return nil
}

// findLong finds the spec of a long option written without its dashes,
// splitting off a value given with "=".
func findLong(s string, specs []*Spec) (*Spec, string, bool) {
	name, value, hasValue := strings.Cut(s, "=")
	for _, spec := range specs {
		if spec.Long != "" && spec.Long == name {
			return spec, value, hasValue
		}
	}
	return nil, "", false
}
