// Package logutil provides the loggers used by all packages. Logs are
// discarded unless an output is configured, normally with the -log flag.
package logutil

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	out    io.Writer = io.Discard
	closer io.Closer
	level  = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	root   = zap.New(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(writerFunc(write)), level),
		zap.AddCaller())
)

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	return out.Write(p)
}

// GetLogger gets a logger for a component. The prefix is conventionally of
// the form "[name] "; the name inside the brackets becomes the logger name.
func GetLogger(prefix string) *zap.SugaredLogger {
	name := strings.Trim(strings.TrimSpace(prefix), "[]")
	return root.Named(name).Sugar()
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the new io.Writer. If the old output was a file opened by SetOutputFile, it
// is closed.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		closer.Close()
		closer = nil
	}
	out = newout
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file. If the name is empty, logs are discarded.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	mu.Lock()
	closer = file
	mu.Unlock()
	return nil
}

// SetLevel changes the minimal level of logs written. It accepts the names
// understood by zapcore ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}
