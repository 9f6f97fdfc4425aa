package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/garrettyokley/termfolio/pkg/eval/evaltest"
	"github.com/garrettyokley/termfolio/pkg/session"
)

const homePrompt = "garrettyokley@portfolio-site:~$ "

func setup(t *testing.T) *jsonrpc2.Conn {
	t.Helper()
	s, err := session.New(session.Config{
		Seed: evaltest.Seed(t), Now: func() time.Time { return evaltest.Now }})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	serverSide, clientSide := net.Pipe()
	done := make(chan struct{})
	go func() {
		Serve(ctx, jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}), s)
		close(done)
	}()
	client := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
			return nil, nil
		}))
	t.Cleanup(func() {
		client.Close()
		cancel()
		<-done
		s.Close()
	})
	return client
}

func call(t *testing.T, c *jsonrpc2.Conn, method string, params any) *Response {
	t.Helper()
	var resp Response
	if err := c.Call(context.Background(), method, params, &resp); err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	return &resp
}

func texts(lines []Line) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestState_WelcomeOnce(t *testing.T) {
	c := setup(t)
	first := call(t, c, "session/state", nil)
	if len(first.Lines) == 0 {
		t.Errorf("first state has no welcome lines")
	}
	if first.Prompt != homePrompt || first.Mode != "normal" {
		t.Errorf("got prompt %q mode %q", first.Prompt, first.Mode)
	}
	if second := call(t, c, "session/state", nil); len(second.Lines) != 0 {
		t.Errorf("second state has lines %v", texts(second.Lines))
	}
}

func TestSubmit(t *testing.T) {
	c := setup(t)
	resp := call(t, c, "session/submit", map[string]string{"line": "cd Documents"})
	if !resp.Success {
		t.Errorf("cd failed")
	}
	if want := "garrettyokley@portfolio-site:~/Documents$ "; resp.Prompt != want {
		t.Errorf("got prompt %q, want %q", resp.Prompt, want)
	}

	resp = call(t, c, "session/submit", map[string]string{"line": "nosuchcommand"})
	want := []Line{
		{"normal", homePrompt[:len(homePrompt)-2] + "/Documents$ nosuchcommand"},
		{"error", "bash: command not found: nosuchcommand"},
	}
	if diff := cmp.Diff(want, resp.Lines); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
	if resp.Success {
		t.Errorf("unknown command succeeded")
	}
}

func TestSubmit_AwaitsDeferred(t *testing.T) {
	c := setup(t)
	resp := call(t, c, "session/submit",
		map[string]string{"line": `cat "Documents/Garrett Yokley.pdf"`})
	if len(resp.Lines) < 2 {
		t.Errorf("got lines %v, want the echo and the résumé text", texts(resp.Lines))
	}
}

func TestKey(t *testing.T) {
	c := setup(t)
	for _, k := range []string{"l", "s", "Left"} {
		call(t, c, "session/key", map[string]string{"key": k})
	}
	resp := call(t, c, "session/key", map[string]string{"key": "Ctrl-A"})
	if resp.Buffer != "ls" || resp.Cursor != 0 {
		t.Errorf("got buffer %q cursor %d", resp.Buffer, resp.Cursor)
	}
}

func TestKey_BadKey(t *testing.T) {
	c := setup(t)
	var resp Response
	err := c.Call(context.Background(), "session/key", map[string]string{"key": "Hyper-x"}, &resp)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeInvalidParams {
		t.Errorf("got err %v, want invalid params", err)
	}
}

func TestComplete(t *testing.T) {
	c := setup(t)
	call(t, c, "session/submit", map[string]string{"line": "cd Documents"})
	for _, k := range "cat Ce" {
		call(t, c, "session/key", map[string]string{"key": string(k)})
	}
	resp := call(t, c, "session/complete", nil)
	if diff := cmp.Diff([]string{"Certs"}, resp.Completions); diff != "" {
		t.Errorf("completions (-want +got):\n%s", diff)
	}
	if resp.Buffer != "cat Certs" {
		t.Errorf("got buffer %q", resp.Buffer)
	}
}

func TestSudoAndEditor(t *testing.T) {
	c := setup(t)
	resp := call(t, c, "session/submit", map[string]string{"line": "sudo nano notes.txt"})
	if resp.Mode != "password" || resp.Prompt != "[sudo] password for garrettyokley: " {
		t.Fatalf("got mode %q prompt %q", resp.Mode, resp.Prompt)
	}
	resp = call(t, c, "session/submit", map[string]string{"line": "Password"})
	if resp.Mode != "editor" || resp.Editor == nil || resp.Editor.Kind != "nano" {
		t.Fatalf("got mode %q editor %v", resp.Mode, resp.Editor)
	}
	if len(resp.Screen) != DefaultHeight {
		t.Errorf("got %d screen lines, want %d", len(resp.Screen), DefaultHeight)
	}
	resp = call(t, c, "session/key", map[string]any{"key": "Ctrl-X", "height": 10})
	if resp.Mode != "normal" || resp.Editor != nil {
		t.Errorf("editor still open after Ctrl-X: mode %q", resp.Mode)
	}
}

func TestUnknownMethod(t *testing.T) {
	c := setup(t)
	err := c.Call(context.Background(), "session/nope", nil, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got err %v, want method not found", err)
	}
}
