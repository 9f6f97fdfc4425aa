package eval_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettyokley/termfolio/pkg/eval"
	. "github.com/garrettyokley/termfolio/pkg/eval/evaltest"
	"github.com/garrettyokley/termfolio/pkg/vfs"
)

func TestEditors(t *testing.T) {
	ev := NewEvaler(t)
	home := ev.Seed.Home
	id := vfs.Identity{User: ev.Seed.User}
	if err := ev.FS.CreateFile(id, home, "notes.txt", "one\ntwo", vfs.DefaultFilePerm); err != nil {
		t.Fatal(err)
	}
	docs := home.Join("Documents")

	tests := []struct {
		line string
		cwd  vfs.Path
		want *eval.EditorRequest
		out  []string
	}{
		{"vim", home, &eval.EditorRequest{Kind: eval.Vim, Dir: home, Message: "[No Name]"}, nil},
		{"vi new.txt", home, &eval.EditorRequest{
			Kind: eval.Vim, Dir: home, Name: "new.txt", Message: `"new.txt" [New File]`}, nil},
		{"vim notes.txt", home, &eval.EditorRequest{
			Kind: eval.Vim, Dir: home, Name: "notes.txt", Content: "one\ntwo", Exists: true,
			Message: `"notes.txt" 2L, 7C`}, nil},
		{"vim ~/notes.txt", docs, &eval.EditorRequest{
			Kind: eval.Vim, Dir: home, Name: "notes.txt", Content: "one\ntwo", Exists: true,
			Message: `"notes.txt" 2L, 7C`}, nil},
		{"nano", home, &eval.EditorRequest{
			Kind: eval.Nano, Dir: home, Name: "untitled.txt", Message: "GNU nano - untitled.txt"}, nil},
		{"nano ../notes.txt", docs, &eval.EditorRequest{
			Kind: eval.Nano, Dir: home, Name: "notes.txt", Content: "one\ntwo", Exists: true,
			Message: "GNU nano - notes.txt"}, nil},
		{"emacs todo", home, &eval.EditorRequest{
			Kind: eval.Nano, Dir: home, Name: "todo", Message: "GNU Emacs (simplified) - todo"},
			[]string{"Emacs would open here... (using nano instead)"}},
	}
	for _, tc := range tests {
		res := ev.Eval(tc.line, eval.Frame{Cwd: tc.cwd, ID: id})
		if !res.Success {
			t.Errorf("Eval(%q) failed", tc.line)
		}
		if diff := cmp.Diff(tc.want, res.Editor); diff != "" {
			t.Errorf("Eval(%q) editor request (-want +got):\n%s", tc.line, diff)
		}
		var out []string
		for _, l := range res.Output {
			out = append(out, l.String())
		}
		if diff := cmp.Diff(tc.out, out); diff != "" {
			t.Errorf("Eval(%q) output (-want +got):\n%s", tc.line, diff)
		}
	}
}

func TestEditors_ChainStops(t *testing.T) {
	Test(t,
		That("emacs").Fails().Prints("emacs: missing filename"),
		That("vim x && echo after").PrintsNothing(),
		That("cd /etc && nano hosts && cd /").EndsIn("/etc"),
	)
}
