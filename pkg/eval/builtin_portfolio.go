package eval

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

//go:embed portfolio.yaml
var portfolioYAML []byte

//go:embed help.txt
var helpText string

type cannedCommand struct {
	Names []string `yaml:"names"`
	Text  string   `yaml:"text"`
	Info  string   `yaml:"info"`
	Open  string   `yaml:"open"`
}

var portfolioCommands = loadCanned(portfolioYAML)

func loadCanned(data []byte) map[string]CommandFunc {
	var entries []cannedCommand
	if err := yaml.Unmarshal(data, &entries); err != nil {
		panic("eval: bad portfolio.yaml: " + err.Error())
	}
	m := make(map[string]CommandFunc)
	for _, e := range entries {
		f := e.call
		for _, name := range e.Names {
			m[name] = f
		}
	}
	return m
}

func (c cannedCommand) call(fm *Frame, args []string) Result {
	var res Result
	res.Success = true
	if c.Text != "" {
		res.Output = ui.Lines(strings.Split(strings.TrimSuffix(c.Text, "\n"), "\n")...)
	}
	if c.Info != "" {
		res.Output = append(res.Output, cyan(c.Info))
	}
	if c.Open != "" {
		res.Navigate = []Navigation{{Target: c.Open, NewTab: true}}
	}
	return res
}

// help prints help.txt. Lines starting with "# " are headings.
func help(fm *Frame, args []string) Result {
	var out []ui.Line
	for _, line := range strings.Split(strings.TrimSuffix(helpText, "\n"), "\n") {
		if heading, isHeading := strings.CutPrefix(line, "# "); isHeading {
			out = append(out, ui.Info(heading))
		} else {
			out = append(out, ui.Plain(line))
		}
	}
	return Result{Success: true, Output: out}
}
