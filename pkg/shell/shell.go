// Package shell is the entry point for the terminal interface of termfolio.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/garrettyokley/termfolio/pkg/eval"
	"github.com/garrettyokley/termfolio/pkg/logutil"
	"github.com/garrettyokley/termfolio/pkg/metrics"
	"github.com/garrettyokley/termfolio/pkg/prog"
	"github.com/garrettyokley/termfolio/pkg/resume"
	"github.com/garrettyokley/termfolio/pkg/rpc"
	"github.com/garrettyokley/termfolio/pkg/session"
	"github.com/garrettyokley/termfolio/pkg/sys"
	"github.com/garrettyokley/termfolio/pkg/ui"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

var logger = logutil.GetLogger("[shell] ")

// How long the output of a wiped filesystem stays before the bricked screen.
// Tests shorten it.
var brickDelay = session.BrickDelay

// Program is the shell subprogram. It always runs, so it goes last in a
// composite.
type Program struct {
	code     codeFlag
	seedFile string
	resume   string
	timeout  time.Duration
	s3       resume.S3Config
	metrics  string
	rpc      bool
}

// codeFlag is the value of -c. It records whether the flag was given, so that
// an empty command line can be run too.
type codeFlag struct {
	code string
	set  bool
}

func (f *codeFlag) String() string { return f.code }

func (f *codeFlag) Set(s string) error {
	f.code, f.set = s, true
	return nil
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.Var(&p.code, "c", "Run a command line, print its output and exit")
	fs.StringVar(&p.seedFile, "seed", "",
		"Build the filesystem from the given seed document instead of the built-in one")
	fs.StringVar(&p.resume, "resume", "",
		"Fetch the résumé text from the given location (http(s)://, s3://bucket/key or a file path)")
	fs.DurationVar(&p.timeout, "resume-timeout", 10*time.Second,
		"Timeout of a résumé fetch")
	fs.StringVar(&p.s3.Endpoint, "s3-endpoint", "",
		"Endpoint of an S3-compatible service for s3:// résumé locations")
	fs.StringVar(&p.s3.Region, "s3-region", "", "Region of the S3 bucket")
	fs.StringVar(&p.metrics, "metrics", "",
		"Write metrics in the Prometheus text format to the given file on exit")
	fs.BoolVar(&p.rpc, "rpc", false, "Serve the JSON-RPC bridge on stdin and stdout")
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported")
	}
	if p.code.set && p.rpc {
		return prog.BadUsage("-c and -rpc cannot be used together")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := p.config(ctx)
	if err != nil {
		return err
	}
	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	if p.metrics != "" {
		defer func() {
			if err := metrics.WriteFile(p.metrics); err != nil {
				fmt.Fprintln(fds[2], "cannot write metrics:", err)
			}
		}()
	}

	switch {
	case p.code.set:
		return script(ctx, fds, s, p.code.code)
	case p.rpc:
		logger.Infow("serving rpc")
		return rpc.Serve(ctx, rpc.StdioStream(fds[0], fds[1]), s)
	case sys.IsATTY(fds[0].Fd()) && sys.IsATTY(fds[1].Fd()):
		return interact(ctx, fds, s)
	default:
		return lineMode(ctx, fds, s)
	}
}

// config builds the session configuration from the flags.
func (p *Program) config(ctx context.Context) (session.Config, error) {
	seed, err := loadSeed(p.seedFile)
	if err != nil {
		return session.Config{}, fmt.Errorf("cannot load seed: %w", err)
	}
	cfg := session.Config{Seed: seed}
	location := p.resume
	if location == "" {
		location = seed.Resume.Location
	}
	if location != "" {
		f, err := resume.New(ctx, location, resume.Options{Timeout: p.timeout, S3: p.s3})
		if err != nil {
			return cfg, fmt.Errorf("bad résumé location: %w", err)
		}
		cfg.Resume = f
	}
	return cfg, nil
}

func loadSeed(filename string) (*vfs.Seed, error) {
	if filename == "" {
		return vfs.DefaultSeed()
	}
	return vfs.LoadSeed(filename)
}

// present writes an update as plain text. A Deferred is awaited.
func present(ctx context.Context, w io.Writer, upd session.Update) {
	writeLines(w, upd.Output)
	writeLines(w, navLines(upd.Navigate))
	if upd.Deferred != nil {
		writeLines(w, upd.Deferred.Await(ctx))
	}
	if upd.Bricked {
		sleep(ctx, brickDelay)
		writeLines(w, session.BrickedScreen())
	}
}

func writeLines(w io.Writer, lines []ui.Line) {
	for _, line := range lines {
		fmt.Fprintln(w, line.Text.Plain())
	}
}

// navLines shows navigation intents, which a terminal cannot follow.
func navLines(navs []eval.Navigation) []ui.Line {
	var lines []ui.Line
	for _, nav := range navs {
		lines = append(lines, ui.Dimmed("[open] "+nav.Target))
	}
	return lines
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
