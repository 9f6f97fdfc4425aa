package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/garrettyokley/termfolio/pkg/prog/progtest"
	"github.com/garrettyokley/termfolio/pkg/must"
	"github.com/garrettyokley/termfolio/pkg/testutil"
)

func TestProgram_Code(t *testing.T) {
	Test(t, &Program{},
		ThatTermfolio("-c", "pwd").WritesStdout("/home/garrettyokley\n"),
		ThatTermfolio("-c", "cd Documents && pwd").WritesStdout("/home/garrettyokley/Documents\n"),
		ThatTermfolio("-c", "").DoesNothing(),
		ThatTermfolio("-c", "nosuchcommand").
			ExitsWith(1).
			WritesStdout("bash: command not found: nosuchcommand\n"),

		ThatTermfolio("-c", "sudo whoami").
			WithStdin("Password\n").
			WritesStdout("[sudo] password for garrettyokley: \nroot\n"),
		ThatTermfolio("-c", "sudo whoami").
			ExitsWith(1).
			WritesStderr("sudo: no password was provided\n"),
		ThatTermfolio("-c", "sudo whoami").
			WithStdin("a\nb\nc\n").
			ExitsWith(1).
			WritesStdoutContaining("sudo: 3 incorrect password attempts"),

		ThatTermfolio("-c", "nano notes.txt").
			WithStdin("hello\x18\n").
			WritesStdout("File saved and nano exited\n"),
		ThatTermfolio("-c", "vim notes.txt").
			WithStdin("ihello\x1b\n:wq\n").
			WritesStdout(`"notes.txt" written` + "\n"),
	)
}

func TestProgram_BadUsage(t *testing.T) {
	Test(t, &Program{},
		ThatTermfolio("extra").
			ExitsWith(2).
			WritesStderrContaining("arguments are not supported"),
		ThatTermfolio("-c", "ls", "-rpc").
			ExitsWith(2).
			WritesStderrContaining("-c and -rpc cannot be used together"),
		ThatTermfolio("-seed", "/nonexistent/seed.yaml", "-c", "ls").
			ExitsWith(2).
			WritesStderrContaining("cannot load seed"),
		ThatTermfolio("-resume", "s3://bucket-only", "-c", "ls").
			ExitsWith(2).
			WritesStderrContaining("bad résumé location"),
	)
}

func TestProgram_LineMode(t *testing.T) {
	exit, stdout, stderr := Run(&Program{}, "cd Documents\npwd\nwhoami")
	if exit != 0 {
		t.Errorf("exit %d, want 0", exit)
	}
	if !strings.HasSuffix(stdout, "/home/garrettyokley/Documents\ngarrettyokley\n") {
		t.Errorf("got stdout %q", stdout)
	}
	if !strings.Contains(stdout, "cat /etc/motd") {
		t.Errorf("welcome not written, got stdout %q", stdout)
	}
	if !strings.Contains(stderr, "garrettyokley@portfolio-site:~/Documents$ ") {
		t.Errorf("prompt not written, got stderr %q", stderr)
	}
}

func TestProgram_LineModeBrick(t *testing.T) {
	testutil.Set(t, &brickDelay, 0)
	exit, stdout, _ := Run(&Program{}, "sudo rm -rf / --no-preserve-root\nPassword\nls\n")
	if exit != 0 {
		t.Errorf("exit %d, want 0", exit)
	}
	if !strings.HasSuffix(stdout, "WHY DID YOU DO THAT!\n") {
		t.Errorf("bricked screen not shown last, got stdout %q", stdout)
	}
}

func TestProgram_Resume(t *testing.T) {
	dir := t.TempDir()
	resumeFile := filepath.Join(dir, "resume.txt")
	must.WriteFile(resumeFile, "Garrett Yokley\nSoftware Engineer\n")
	Test(t, &Program{},
		ThatTermfolio("-resume", resumeFile, "-c", `cat "Documents/Garrett Yokley.pdf"`).
			WritesStdoutContaining("Garrett Yokley\nSoftware Engineer\n"),
		ThatTermfolio("-resume", filepath.Join(dir, "missing"), "-c", `cat "Documents/Garrett Yokley.pdf"`).
			WritesStdoutContaining("Unable to fetch resume content"),
	)
}

func TestProgram_Seed(t *testing.T) {
	seedFile := filepath.Join(t.TempDir(), "seed.yaml")
	must.WriteFile(seedFile, "hostname: lab\n")
	_, _, stderr := Run(&Program{}, "pwd\n", "-seed", seedFile)
	if !strings.Contains(stderr, "garrettyokley@lab:~$ ") {
		t.Errorf("prompt does not use the seed hostname, got stderr %q", stderr)
	}
}

func TestProgram_Metrics(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")
	Test(t, &Program{},
		ThatTermfolio("-metrics", metricsFile, "-c", "cd"))
	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `termfolio_commands_total{command="cd",result="success"}`) {
		t.Errorf("metrics file lacks the cd command:\n%s", data)
	}
}
