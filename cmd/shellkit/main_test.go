package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/contentstore"
	"github.com/vango-dev/shellkit/pkg/manifest"
	"github.com/vango-dev/shellkit/pkg/render"
	"github.com/vango-dev/shellkit/pkg/routes"
)

const testManifest = `
redirectIndexTo: /home
routes:
  - content: layout
    children:
      - path: home
        title: Home
        content: directory
      - path: reports
        title: Reports
        lazy: reports.html
      - path: archive
        title: Archive
        lazy: archive.html
`

func loadTestManifest(t *testing.T) (*manifest.Manifest, contentstore.Store) {
	t.Helper()
	store := contentstore.NewDirStore(fstest.MapFS{
		"reports.html": {Data: []byte("<p>reports</p>")},
	})
	reg := manifest.NewRegistry(store)
	var tree []routes.Descriptor
	registerBuiltins(reg, func() []routes.Descriptor { return tree })

	m, err := manifest.Load(strings.NewReader(testManifest), reg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tree = m.Routes
	return m, store
}

func TestCheckManifest(t *testing.T) {
	m, store := loadTestManifest(t)

	report := checkManifest(context.Background(), m, store)
	if report.routes != 4 {
		t.Errorf("routes = %d, want 4", report.routes)
	}
	if report.lazy != 2 {
		t.Errorf("lazy = %d, want 2", report.lazy)
	}
	if len(report.problems) != 1 {
		t.Fatalf("problems = %d, want 1", len(report.problems))
	}
	if got := report.problems[0].Code; got != "S001" {
		t.Errorf("code = %s, want S001", got)
	}
	if !strings.Contains(report.problems[0].Detail, "archive.html") {
		t.Errorf("detail = %q, want the missing key", report.problems[0].Detail)
	}

	errors.DisableColors()
	var buf bytes.Buffer
	if err := report.print(&buf, false); err == nil {
		t.Error("print succeeded with a missing key")
	}
	if !strings.Contains(buf.String(), "S001") {
		t.Errorf("output missing code:\n%s", buf.String())
	}
}

func TestCheckManifestWithoutStore(t *testing.T) {
	m, _ := loadTestManifest(t)

	report := checkManifest(context.Background(), m, nil)
	if len(report.problems) != 0 {
		t.Errorf("problems = %v, want none", report.problems)
	}
}

func TestDirectoryBuiltin(t *testing.T) {
	m, _ := loadTestManifest(t)

	shell := routes.New(routes.Config{Routes: m.Routes, RedirectIndexTo: m.RedirectIndexTo})
	defer shell.Close()
	nav := shell.NavigateContext(context.Background(), "/")
	if nav.Location != "/home" {
		t.Fatalf("location = %s, want /home", nav.Location)
	}

	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(shell.Render(context.Background()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`class="shell-layout"`,
		`class="shell-directory"`,
		`href="/reports"`,
		`href="/archive"`,
		">Reports<",
		">lazy<",
		">static<",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %s:\n%s", want, html)
		}
	}
}

func TestFlattenLayouts(t *testing.T) {
	descs := []routes.Descriptor{
		{Children: []routes.Descriptor{{Path: "a"}, {Path: "b"}}},
		{Path: "c", Children: []routes.Descriptor{{Path: "d"}}},
	}
	got := flattenLayouts(descs)
	var paths []string
	for _, d := range got {
		paths = append(paths, d.Path)
	}
	if strings.Join(paths, ",") != "a,b,c" {
		t.Errorf("paths = %v, want [a b c]", paths)
	}
}

func TestVersionShort(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"version", "--short"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != version {
		t.Errorf("version = %q, want %q", got, version)
	}
}

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"shellkit": func() { os.Exit(run(os.Args[1:], os.Stdout, os.Stderr)) },
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("HOME", env.WorkDir)
			return nil
		},
	})
}
