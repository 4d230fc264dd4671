package manifest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/routes"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

type keyStore struct {
	keys []string
}

func (s *keyStore) Loader(key string) routes.LazyFunc {
	s.keys = append(s.keys, key)
	return func(context.Context) (vdom.Component, error) {
		return vdom.Static(vdom.Text(key)), nil
	}
}

const sample = `
redirectIndexTo: /dashboard
routes:
  - path: dashboard
    title: Dashboard
    breadcrumb: Home
    content: layout
    children:
      - index: true
        lazy: reports/summary.html
      - path: settings
        title: Settings
        content: settings
`

func TestLoad(t *testing.T) {
	store := &keyStore{}
	reg := NewRegistry(store)
	layout := vdom.Div(routes.Outlet())
	settings := vdom.P(vdom.Text("settings"))
	reg.Register("layout", layout)
	reg.Register("settings", settings)

	m, err := Load(strings.NewReader(sample), reg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.RedirectIndexTo != "/dashboard" {
		t.Errorf("RedirectIndexTo = %q", m.RedirectIndexTo)
	}
	if len(m.Routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(m.Routes))
	}
	dash := m.Routes[0]
	if dash.Path != "dashboard" || dash.Title != "Dashboard" || dash.Breadcrumb != "Home" {
		t.Errorf("dashboard = %+v", dash)
	}
	if dash.Element != layout {
		t.Error("dashboard content not resolved from the registry")
	}
	if len(dash.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(dash.Children))
	}
	if idx := dash.Children[0]; !idx.Index || idx.Lazy == nil {
		t.Errorf("index child = %+v, want a lazy index", idx)
	}
	if dash.Children[1].Element != settings {
		t.Error("settings content not resolved")
	}
	if diff := cmp.Diff([]string{"reports/summary.html"}, store.keys); diff != "" {
		t.Errorf("lazy keys (-want +got):\n%s", diff)
	}
	if line := m.File.Routes[0].Line(); line != 4 {
		t.Errorf("line = %d, want 4", line)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		store LazySource
		code  string
	}{
		{"syntax", "routes: [", nil, "M001"},
		{"unknown top-level field", "routs: []", nil, "M001"},
		{"unknown route field", "routes:\n  - path: a\n    titel: A\n", nil, "M001"},
		{"unknown content", "routes:\n  - path: a\n    content: missing\n", nil, "M002"},
		{"nested unknown content", "routes:\n  - path: a\n    children:\n      - path: b\n        content: missing\n", nil, "M002"},
		{"lazy without store", "routes:\n  - path: a\n    lazy: a.html\n", nil, "M003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), NewRegistry(tt.store))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	m, err := Load(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Routes) != 0 {
		t.Errorf("got %d routes, want 0", len(m.Routes))
	}
}

func TestLoadedRoutesCompile(t *testing.T) {
	reg := NewRegistry(&keyStore{})
	reg.Register("layout", vdom.Div(routes.Outlet()))
	reg.Register("settings", vdom.P())

	m, err := Load(strings.NewReader(sample), reg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := routes.New(routes.Config{Routes: m.Routes, RedirectIndexTo: m.RedirectIndexTo})
	defer s.Close()

	nav := s.NavigateContext(context.Background(), "/")
	if nav.Location != "/dashboard" || nav.NotFound {
		t.Errorf("navigation = %+v, want /dashboard", nav)
	}
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("b", vdom.P())
	reg.Register("a", vdom.P())

	if diff := cmp.Diff([]string{"a", "b"}, reg.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}
