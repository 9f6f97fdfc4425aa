// Termfolio is a portfolio presented as a simulated Unix terminal. It runs
// interactively on a terminal, reads command lines from a pipe, runs a single
// command line with -c, or serves a browser front end over JSON-RPC with -rpc.
package main

import (
	"os"

	"github.com/garrettyokley/termfolio/pkg/buildinfo"
	"github.com/garrettyokley/termfolio/pkg/prog"
	"github.com/garrettyokley/termfolio/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &shell.Program{})))
}
