// Package rpc serves a session over JSON-RPC 2.0, so that a presentation
// layer running elsewhere, such as in a browser, can drive it.
//
// Methods:
//
//	session/state    {height?}       the current state, with the welcome lines
//	                                 on the first call
//	session/key      {key, height?}  handle one key, written in the ui.ParseKey
//	                                 syntax ("a", "Enter", "Ctrl-X", "Up")
//	session/submit   {line, height?} submit a whole command line
//	session/complete {height?}       tab-complete the command line
//
// Every method returns a Response. Messages are framed with Content-Length
// headers.
package rpc

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/garrettyokley/termfolio/pkg/edit"
	"github.com/garrettyokley/termfolio/pkg/logutil"
	"github.com/garrettyokley/termfolio/pkg/session"
	"github.com/garrettyokley/termfolio/pkg/ui"
)

var logger = logutil.GetLogger("[rpc] ")

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// DefaultHeight is the screen height editors are rendered for when a request
// does not give one.
const DefaultHeight = 24

// Line is an output line.
type Line struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Navigation asks the presentation layer to open a page.
type Navigation struct {
	Target string `json:"target"`
	NewTab bool   `json:"newTab"`
}

// Response is the result of all methods.
type Response struct {
	// Output lines to append to the log.
	Lines []Line `json:"lines"`
	// Whether the log should be cleared before Lines are appended.
	Clear    bool         `json:"clear,omitempty"`
	Navigate []Navigation `json:"navigate,omitempty"`
	// Exit status of a submitted command line.
	Success bool `json:"success"`
	// Completion candidates, for session/complete.
	Completions []string `json:"completions,omitempty"`
	// Set when the session has just been bricked. The presentation layer
	// shows Screen after BrickDelayMs.
	Bricked      bool  `json:"bricked,omitempty"`
	BrickDelayMs int64 `json:"brickDelayMs,omitempty"`

	Prompt string `json:"prompt"`
	Buffer string `json:"buffer"`
	// Byte offset of the cursor in Buffer.
	Cursor int    `json:"cursor"`
	Mode   string `json:"mode"`
	// The open editor, if any.
	Editor *edit.View `json:"editor,omitempty"`
	// The full-screen content shown instead of the log, while an editor is
	// open or once bricked.
	Screen []Line `json:"screen,omitempty"`
}

type heightParams struct {
	Height int `json:"height"`
}

type keyParams struct {
	Key    string `json:"key"`
	Height int    `json:"height"`
}

type submitParams struct {
	Line   string `json:"line"`
	Height int    `json:"height"`
}

// StdioStream returns a stream over a pair of files, such as stdin and
// stdout.
func StdioStream(in, out *os.File) jsonrpc2.ObjectStream {
	return jsonrpc2.NewBufferedStream(transport{in, out}, jsonrpc2.VSCodeObjectCodec{})
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}

// Serve serves s on stream until the peer disconnects or ctx is done.
func Serve(ctx context.Context, stream jsonrpc2.ObjectStream, s *session.Session) error {
	conn := jsonrpc2.NewConn(ctx, stream, Handler(s))
	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		conn.Close()
	}
	return nil
}

// Handler returns a jsonrpc2.Handler serving s.
func Handler(s *session.Session) jsonrpc2.Handler {
	srv := &server{s: s}
	return routingHandler(&srv.mu, map[string]method{
		"session/state":    srv.state,
		"session/key":      srv.key,
		"session/submit":   srv.submit,
		"session/complete": srv.complete,
	})
}

type method func(context.Context, json.RawMessage) (any, error)

// routingHandler dispatches requests by method name. The connection may call
// it from its own goroutine; mu serializes the calls since a session is not
// safe for concurrent use.
func routingHandler(mu *sync.Mutex, methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		mu.Lock()
		defer mu.Unlock()
		logger.Debugw("request", "method", req.Method)
		return fn(ctx, params)
	})
}

type server struct {
	mu      sync.Mutex
	s       *session.Session
	started bool
}

// decode decodes params into v. Absent params leave v untouched.
func decode(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if json.Unmarshal(params, v) != nil {
		return errInvalidParams
	}
	return nil
}

func (srv *server) state(_ context.Context, params json.RawMessage) (any, error) {
	var p heightParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	var upd session.Update
	if !srv.started {
		upd.Output = srv.s.Welcome()
	}
	return srv.respond(upd, p.Height), nil
}

func (srv *server) key(ctx context.Context, params json.RawMessage) (any, error) {
	var p keyParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	k, err := ui.ParseKey(p.Key)
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return srv.respond(srv.await(ctx, srv.s.HandleKey(k)), p.Height), nil
}

func (srv *server) submit(ctx context.Context, params json.RawMessage) (any, error) {
	var p submitParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return srv.respond(srv.await(ctx, srv.s.Submit(p.Line)), p.Height), nil
}

func (srv *server) complete(_ context.Context, params json.RawMessage) (any, error) {
	var p heightParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if srv.s.Mode() != session.Normal {
		return srv.respond(session.Update{}, p.Height), nil
	}
	items := srv.s.Completions()
	resp := srv.respond(srv.s.HandleKey(ui.K(ui.Tab)), p.Height)
	resp.Completions = items
	return resp, nil
}

// await resolves the deferred output of an update into its output lines.
func (srv *server) await(ctx context.Context, upd session.Update) session.Update {
	if upd.Deferred != nil {
		upd.Output = append(upd.Output, upd.Deferred.Await(ctx)...)
		upd.Deferred = nil
	}
	return upd
}

func (srv *server) respond(upd session.Update, height int) *Response {
	srv.started = true
	if height <= 0 {
		height = DefaultHeight
	}
	s := srv.s
	resp := &Response{
		Lines: convertLines(upd.Output), Clear: upd.Clear,
		Success: upd.Success, Bricked: upd.Bricked,
		Mode: s.Mode().String(),
	}
	for _, nav := range upd.Navigate {
		resp.Navigate = append(resp.Navigate, Navigation{nav.Target, nav.NewTab})
	}
	if upd.Bricked {
		resp.BrickDelayMs = session.BrickDelay.Milliseconds()
	}
	switch s.Mode() {
	case session.Normal:
		buf := s.Buffer()
		resp.Prompt, resp.Buffer, resp.Cursor = s.Prompt(), buf.Content, buf.Dot
	case session.AwaitingPassword:
		resp.Prompt = s.PasswordPrompt()
	case session.EditorOpen:
		view := s.Editor().View()
		resp.Editor = &view
		resp.Screen = convertLines(s.Editor().Render(height))
	case session.Bricked:
		resp.Screen = convertLines(session.BrickedScreen())
	}
	return resp
}

func convertLines(lines []ui.Line) []Line {
	converted := make([]Line, len(lines))
	for i, l := range lines {
		converted[i] = Line{l.Kind.String(), l.Text.Plain()}
	}
	return converted
}
