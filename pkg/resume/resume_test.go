package resume

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Garrett Yokley.txt" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "resume text")
	}))
	defer srv.Close()

	f := &HTTPFetcher{URL: srv.URL + "/Garrett%20Yokley.txt"}
	text, err := f.Fetch(context.Background())
	if err != nil || text != "resume text" {
		t.Errorf("Fetch = %q, %v", text, err)
	}

	f = &HTTPFetcher{URL: srv.URL + "/missing"}
	_, err = f.Fetch(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 404 {
		t.Errorf("Fetch of missing path returned %v", err)
	}
}

func TestHTTPFetcher_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := (&HTTPFetcher{URL: url}).Fetch(context.Background())
	if err == nil || IsStatusError(err) {
		t.Errorf("Fetch from a closed server returned %v", err)
	}
}

type fakeS3 struct {
	objects map[string]string
}

func (f fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Fetcher(t *testing.T) {
	client := fakeS3{map[string]string{"site/resume.txt": "from s3"}}
	text, err := (&S3Fetcher{client, "site", "resume.txt"}).Fetch(context.Background())
	if err != nil || text != "from s3" {
		t.Errorf("Fetch = %q, %v", text, err)
	}
	_, err = (&S3Fetcher{client, "site", "nope"}).Fetch(context.Background())
	if !IsStatusError(err) {
		t.Errorf("Fetch of missing key returned %v", err)
	}
}

func TestFileFetcher(t *testing.T) {
	name := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(name, []byte("local"), 0600); err != nil {
		t.Fatal(err)
	}
	text, err := FileFetcher(name).Fetch(context.Background())
	if err != nil || text != "local" {
		t.Errorf("Fetch = %q, %v", text, err)
	}
	if _, err := FileFetcher(name + ".missing").Fetch(context.Background()); !IsStatusError(err) {
		t.Errorf("Fetch of missing file returned %v", err)
	}
}

func TestFSFetcher(t *testing.T) {
	fsys := fstest.MapFS{"docs/cv.pdf": {Data: []byte("cv")}}
	text, err := FSFetcher{fsys, "docs/cv.pdf"}.Fetch(context.Background())
	if err != nil || text != "cv" {
		t.Errorf("Fetch = %q, %v", text, err)
	}
	if _, err := (FSFetcher{fsys, "docs/x"}).Fetch(context.Background()); !IsStatusError(err) {
		t.Errorf("Fetch of missing file returned %v", err)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		location string
		want     any
	}{
		{"https://example.com/cv.txt", &HTTPFetcher{}},
		{"http://example.com/cv.txt", &HTTPFetcher{}},
		{"file:///srv/cv.txt", FileFetcher("")},
		{"/srv/cv.txt", FileFetcher("")},
	}
	for _, test := range tests {
		f, err := New(ctx, test.location, Options{})
		if err != nil {
			t.Errorf("New(%q): %v", test.location, err)
			continue
		}
		inner := f.(instrumented).f
		switch test.want.(type) {
		case *HTTPFetcher:
			if _, ok := inner.(*HTTPFetcher); !ok {
				t.Errorf("New(%q) = %T", test.location, inner)
			}
		case FileFetcher:
			if got, ok := inner.(FileFetcher); !ok || got != "/srv/cv.txt" {
				t.Errorf("New(%q) = %#v", test.location, inner)
			}
		}
	}
	for _, bad := range []string{"", "s3://bucket", "s3:///key"} {
		if _, err := New(ctx, bad, Options{}); err == nil {
			t.Errorf("New(%q) succeeded", bad)
		}
	}
}

type failing struct{}

func (failing) Fetch(context.Context) (string, error) { return "", errors.New("boom") }

func TestInstrument(t *testing.T) {
	if _, err := Instrument("test", failing{}).Fetch(context.Background()); err == nil {
		t.Errorf("error not passed through")
	}
	fsys := fstest.MapFS{"cv": {Data: []byte("cv")}}
	text, err := Instrument("test", FSFetcher{fsys, "cv"}).Fetch(context.Background())
	if err != nil || text != "cv" {
		t.Errorf("Fetch = %q, %v", text, err)
	}
}
