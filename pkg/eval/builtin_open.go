package eval

import (
	"strings"

	"github.com/garrettyokley/termfolio/pkg/ui"
)

var openCommands = map[string]CommandFunc{
	"xdg-open": xdgOpen("xdg-open"),
	"open":     xdgOpen("open"),
}

// Content prefix of link files, desktop-entry-like files with a URL= line.
const linkShebang = "#!/usr/bin/env xdg-open"

// PDFs whose page does not exist yet; opening them prints their content.
var comingSoonPDFs = map[string]bool{
	"Linux+, CompTIA.pdf": true,
	"Linux Essentials (LPI-1), Linux Professional Institute.pdf": true,
	"CCNA, Cisco.pdf":    true,
	"RHCSA, Red Hat.pdf": true,
	"Bachelor of Science in Computer Science, WGU.pdf": true,
}

func white(s string) ui.Line { return ui.Styled(s, ui.FgWhite) }

func xdgOpen(cmd string) CommandFunc {
	return func(fm *Frame, args []string) Result {
		operand := joinOperand(args)
		if operand == "" {
			return failf("%s: missing operand", cmd)
		}
		n, _, name, exists := fm.lookup(trimSlashes(operand))
		if !exists {
			return failf("%s: %s: No such file or directory", cmd, operand)
		}
		if n.IsDir() {
			return failf("%s: %s: Is a directory", cmd, operand)
		}
		content := n.Content()
		switch {
		case strings.HasPrefix(content, linkShebang):
			return openLink(cmd, name, content)
		case strings.HasSuffix(name, ".pdf"):
			if comingSoonPDFs[name] {
				if content == "" {
					return ok(ui.Plain("Content for " + name + " (coming soon)"))
				}
				return ok(contentLines(content)...)
			}
			kind := "Opening document PDF..."
			if name == fm.ev.Seed.Resume.File {
				kind = "Opening resume PDF..."
			}
			return Result{
				Success:  true,
				Output:   []ui.Line{cyan("Opening PDF in new tab..."), white("File: " + name), white(kind)},
				Navigate: []Navigation{{Target: "/" + name, NewTab: true}},
			}
		case content == "":
			return ok(ui.Plain("(empty file)"))
		default:
			return ok(contentLines(content)...)
		}
	}
}

func openLink(cmd, name, content string) Result {
	var url string
	for _, line := range strings.Split(content, "\n") {
		if u, found := strings.CutPrefix(line, "URL="); found {
			url = u
			break
		}
	}
	if url == "" {
		return failf("%s: cannot execute %s: invalid format", cmd, name)
	}
	out := []ui.Line{cyan("Opening " + name + "...")}
	nav := Navigation{Target: url, NewTab: true}
	switch {
	case name == "Chess Game" || name == "Play Chess":
		out = append(out, white("Opening Chess Game..."),
			white("Opening project page: http://localhost:3000/chess.html"))
		nav.Target = "/chess.html"
	case name == "Certifications":
		out = append(out, white("Opening new tab: "+url))
	case strings.Contains(url, "projects/"):
		out = append(out, white("Opening project page: "+url))
	case strings.Contains(url, "linkedin.com"):
		out = append(out, white("Opening LinkedIn profile in new tab"))
	case strings.Contains(url, "github.com"):
		out = append(out, white("Opening GitHub profile in new tab"))
	case strings.HasPrefix(url, "mailto:"):
		out = append(out, white("Opening default email client"))
	default:
		out = append(out, white("Opening in default browser: "+url))
	}
	return Result{Success: true, Output: out, Navigate: []Navigation{nav}}
}
