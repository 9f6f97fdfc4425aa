// Package resume fetches the text shown for the résumé file. The text lives
// outside the virtual filesystem: on a web server, in an S3 bucket or in a
// local file.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/garrettyokley/termfolio/pkg/logutil"
	"github.com/garrettyokley/termfolio/pkg/metrics"
)

var logger = logutil.GetLogger("[resume] ")

// Fetcher fetches the résumé text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// StatusError is returned when the location answered but did not have the
// text, such as an HTTP response that is not 2xx or a missing S3 object.
type StatusError struct {
	Location string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Location, e.Code)
}

// IsStatusError reports whether err wraps a *StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Options configures the fetchers built by New.
type Options struct {
	// Timeout bounds a single fetch. Zero means no timeout.
	Timeout time.Duration
	// S3 configures access to s3:// locations.
	S3 S3Config
}

// New returns a Fetcher for a location. Supported forms are http:// and
// https:// URLs, s3://bucket/key, file:// URLs and bare file paths.
func New(ctx context.Context, location string, opts Options) (Fetcher, error) {
	var f Fetcher
	var source string
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		f, source = &HTTPFetcher{URL: location, Timeout: opts.Timeout}, "http"
	case strings.HasPrefix(location, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(location, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("bad S3 location %q, want s3://bucket/key", location)
		}
		client, err := NewS3Client(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		f, source = &S3Fetcher{Client: client, Bucket: bucket, Key: key}, "s3"
	case strings.HasPrefix(location, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, err
		}
		f, source = FileFetcher(u.Path), "file"
	case location == "":
		return nil, errors.New("empty résumé location")
	default:
		f, source = FileFetcher(location), "file"
	}
	return Instrument(source, f), nil
}

// FileFetcher reads the text from a file of the host filesystem.
type FileFetcher string

// Fetch implements Fetcher.
func (f FileFetcher) Fetch(ctx context.Context) (string, error) {
	data, err := os.ReadFile(string(f))
	if errors.Is(err, fs.ErrNotExist) {
		return "", &StatusError{string(f), 404}
	}
	return string(data), err
}

// FSFetcher reads the text from a file of an fs.FS.
type FSFetcher struct {
	FS   fs.FS
	Name string
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(ctx context.Context) (string, error) {
	data, err := fs.ReadFile(f.FS, f.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &StatusError{f.Name, 404}
	}
	return string(data), err
}

type instrumented struct {
	source string
	f      Fetcher
}

// Instrument wraps f so that each fetch is logged and recorded in metrics
// under the given source label.
func Instrument(source string, f Fetcher) Fetcher {
	return instrumented{source, f}
}

func (in instrumented) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	text, err := in.f.Fetch(ctx)
	d := time.Since(start)
	metrics.RecordResumeFetch(in.source, d, err == nil)
	if err != nil {
		logger.Warnw("résumé fetch failed", "source", in.source, "error", err)
	} else {
		logger.Debugw("résumé fetched", "source", in.source, "bytes", len(text), "duration", d)
	}
	return text, err
}
