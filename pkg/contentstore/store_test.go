package contentstore

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/render"
)

type fakeS3 struct {
	objects map[string]string
	fail    error
	gets    []string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gets = append(f.gets, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	if f.fail != nil {
		return nil, f.fail
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3StoreFetch(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"site/reports/summary.html": "<p>summary</p>",
	}}
	store := NewS3Store(client, "bucket", "site")

	data, err := store.Fetch(context.Background(), "/reports/summary.html")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "<p>summary</p>" {
		t.Errorf("data = %q", data)
	}
	if len(client.gets) != 1 || client.gets[0] != "bucket/site/reports/summary.html" {
		t.Errorf("requests = %v", client.gets)
	}

	if _, err := store.Fetch(context.Background(), "missing.html"); !errors.HasCode(err, "S001") {
		t.Errorf("missing key error = %v, want S001", err)
	}
}

func TestS3StoreErrors(t *testing.T) {
	boom := stderrors.New("connection reset")
	store := NewS3Store(&fakeS3{fail: boom}, "bucket", "")

	_, err := store.Fetch(context.Background(), "a.html")
	if !errors.HasCode(err, "S002") || !stderrors.Is(err, boom) {
		t.Errorf("Fetch error = %v, want S002 wrapping the cause", err)
	}
	if _, err := store.Exists(context.Background(), "a.html"); !errors.HasCode(err, "S002") {
		t.Errorf("Exists error = %v, want S002", err)
	}
}

func TestS3StoreMaxSize(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"big.html": strings.Repeat("x", 64)}}
	store := NewS3Store(client, "bucket", "").WithMaxSize(16)

	if _, err := store.Fetch(context.Background(), "big.html"); !errors.HasCode(err, "S002") {
		t.Errorf("error = %v, want S002", err)
	}
}

func TestS3StoreExists(t *testing.T) {
	store := NewS3Store(&fakeS3{objects: map[string]string{"p/a.html": ""}}, "bucket", "p/")

	tests := []struct {
		key  string
		want bool
	}{
		{"a.html", true},
		{"b.html", false},
	}
	for _, tt := range tests {
		got, err := store.Exists(context.Background(), tt.key)
		if err != nil {
			t.Fatalf("Exists(%s): %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%s) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestDirStore(t *testing.T) {
	fsys := fstest.MapFS{
		"reports/summary.html": {Data: []byte("<p>summary</p>")},
		"big.html":             {Data: bytes.Repeat([]byte("x"), 64)},
		"reports":              {Mode: fs.ModeDir | 0o755},
	}
	store := NewDirStore(fsys).WithMaxSize(32)
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want string
		code string
	}{
		{"found", "reports/summary.html", "<p>summary</p>", ""},
		{"leading slash", "/reports/summary.html", "<p>summary</p>", ""},
		{"missing", "nope.html", "", "S001"},
		{"escape", "../secret", "", "S001"},
		{"too large", "big.html", "", "S002"},
		{"directory", "reports", "", "S001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := store.Fetch(ctx, tt.key)
			if tt.code != "" {
				if !errors.HasCode(err, tt.code) {
					t.Errorf("error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("data = %q, want %q", data, tt.want)
			}
		})
	}

	if ok, _ := store.Exists(ctx, "reports/summary.html"); !ok {
		t.Error("Exists = false for a present file")
	}
	if ok, _ := store.Exists(ctx, "reports"); ok {
		t.Error("directories are not content")
	}
}

func TestLoaderRendersFragment(t *testing.T) {
	store := NewDirStore(fstest.MapFS{"a.html": {Data: []byte("<em>hi</em>")}})

	comp, err := store.Loader("a.html")(context.Background())
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(comp.Render())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div class="shell-content" data-content-key="a.html"><em>hi</em></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestLoaderPropagatesErrors(t *testing.T) {
	store := NewDirStore(fstest.MapFS{})
	if _, err := store.Loader("x.html")(context.Background()); !errors.HasCode(err, "S001") {
		t.Errorf("error = %v, want S001", err)
	}
}
