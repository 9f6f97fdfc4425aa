// Package buildinfo reports the version of termfolio.
//
// Version may be set at link time with
// -ldflags "-X github.com/garrettyokley/termfolio/pkg/buildinfo.Version=1.2.3".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/garrettyokley/termfolio/pkg/prog"
)

// Version of termfolio. Builds from a checkout get VCS data appended.
var Version = "0.3.0"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion"`
}

// Current is the Info of the running binary.
var Current = read(Version, debug.ReadBuildInfo)

func read(version string, readBuildInfo func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: version, GoVersion: runtime.Version()}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	// "go install ...@v1.2.3" records the module version.
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = strings.TrimPrefix(v, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats the version the way -version prints it, such as
// "0.3.0 (1234567890ab, modified)".
func (i Info) String() string {
	if i.Revision == "" {
		return i.Version
	}
	rev := i.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if i.Modified {
		rev += ", modified"
	}
	return fmt.Sprintf("%s (%s)", i.Version, rev)
}

// Program handles -version and -buildinfo, and defers to the next program
// otherwise.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "Show version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "Show build info and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var v any
	switch {
	case p.buildinfo:
		v = Current
	case p.version:
		v = Current.Version
	default:
		return prog.ErrNextProgram
	}
	if *p.json {
		return json.NewEncoder(fds[1]).Encode(v)
	}
	if p.buildinfo {
		fmt.Fprintln(fds[1], "termfolio", Current)
		fmt.Fprintln(fds[1], "built with", Current.GoVersion)
	} else {
		fmt.Fprintln(fds[1], Current)
	}
	return nil
}
