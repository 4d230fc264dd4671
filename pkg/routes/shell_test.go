package routes

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/render"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

func renderHTML(t *testing.T, node *vdom.VNode) string {
	t.Helper()
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

func waitResolved(t *testing.T, s *Shell) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Resolve(ctx); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

type textComponent string

func (c textComponent) Render() *vdom.VNode { return vdom.P(vdom.Text(string(c))) }

func TestShellRedirectBeatsRootIndex(t *testing.T) {
	s := New(Config{
		RedirectIndexTo: "/dashboard",
		Routes: []Descriptor{
			{Index: true, Title: "Root", Element: vdom.P(vdom.Text("root index"))},
			{Path: "dashboard", Title: "Dashboard", Element: vdom.P(vdom.Text("dash"))},
		},
	})
	defer s.Close()

	nav := s.NavigateContext(context.Background(), "/")

	if !nav.Redirected || nav.Location != "/dashboard" {
		t.Fatalf("navigation = %+v, want redirect to /dashboard", nav)
	}
	if nav.Outcome() != OutcomeRedirected {
		t.Errorf("outcome = %q, want %q", nav.Outcome(), OutcomeRedirected)
	}
	if got := renderHTML(t, s.Render(context.Background())); got != "<p>dash</p>" {
		t.Errorf("render = %q", got)
	}
}

func TestShellRedirectLoop(t *testing.T) {
	s := New(Config{RedirectIndexTo: "/"})
	defer s.Close()

	nav := s.NavigateContext(context.Background(), "/")

	if nav.Outcome() != OutcomeRedirectLoop {
		t.Errorf("outcome = %q, want %q", nav.Outcome(), OutcomeRedirectLoop)
	}
	if !nav.NotFound || !nav.Chain.NotFound() {
		t.Error("redirect loop should render NotFound")
	}
}

func TestShellQueryAndFragmentIgnored(t *testing.T) {
	s := New(Config{Routes: []Descriptor{{Path: "a", Element: vdom.P()}}})
	defer s.Close()

	nav := s.NavigateContext(context.Background(), "a/?tab=1#top")
	if nav.Location != "/a" || nav.NotFound {
		t.Errorf("navigation = %+v, want /a", nav)
	}
}

func TestShellNotFoundDoesNotPublishStaleMetadata(t *testing.T) {
	var (
		titles []string
		crumbs [][]Breadcrumb
	)
	s := New(Config{
		Host: Host{
			SetPageTitle:   func(t string) { titles = append(titles, t) },
			SetBreadcrumbs: func(b []Breadcrumb) { crumbs = append(crumbs, b) },
		},
		Routes: []Descriptor{
			{Path: "settings", Title: "Settings", Element: vdom.P(vdom.Text("settings"))},
		},
	})
	defer s.Close()

	s.Navigate("/settings")
	nav := s.NavigateContext(context.Background(), "/setings")

	if !nav.NotFound || nav.Outcome() != OutcomeNotFound {
		t.Fatalf("navigation = %+v, want NotFound", nav)
	}
	if diff := cmp.Diff([]string{"Settings"}, titles); diff != "" {
		t.Errorf("titles (-want +got):\n%s", diff)
	}
	if len(crumbs) != 2 || len(crumbs[1]) != 0 {
		t.Errorf("breadcrumbs = %v, want the trail cleared", crumbs)
	}

	html := renderHTML(t, s.Render(context.Background()))
	if !strings.Contains(html, "Page not found") {
		t.Errorf("NotFound not rendered: %s", html)
	}
	if !strings.Contains(html, `href="/settings"`) {
		t.Errorf("suggestion missing: %s", html)
	}
}

func TestShellNotFoundHandleAndPlaceholder(t *testing.T) {
	var titles []string
	s := New(Config{
		Host:           Host{SetPageTitle: func(t string) { titles = append(titles, t) }},
		NotFoundHandle: Handle{Title: "Missing"},
		NotFound: func(path, suggestion string) *vdom.VNode {
			return vdom.P(vdom.Textf("no %s", path))
		},
	})
	defer s.Close()

	s.Navigate("/x/y")

	if diff := cmp.Diff([]string{"Missing"}, titles); diff != "" {
		t.Errorf("titles (-want +got):\n%s", diff)
	}
	if got := renderHTML(t, s.Render(context.Background())); got != "<p>no /x/y</p>" {
		t.Errorf("render = %q", got)
	}
}

func TestShellNestedOutlets(t *testing.T) {
	s := New(Config{Routes: []Descriptor{
		{Path: "", Element: vdom.Div(vdom.Class("app"), Outlet()), Children: []Descriptor{
			{Path: "a", Children: []Descriptor{
				{Path: "b", Element: vdom.Section(Outlet()), Children: []Descriptor{
					{Index: true, Element: vdom.P(vdom.Text("leaf"))},
				}},
			}},
		}},
	}})
	defer s.Close()

	s.Navigate("/a/b")

	want := `<div class="app"><section><p>leaf</p></section></div>`
	if got := renderHTML(t, s.Render(context.Background())); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestShellOutletDoesNotMutateStaticContent(t *testing.T) {
	layout := vdom.Div(Outlet())
	s := New(Config{Routes: []Descriptor{
		{Path: "", Element: layout, Children: []Descriptor{
			{Path: "a", Element: vdom.P(vdom.Text("a"))},
			{Path: "b", Element: vdom.P(vdom.Text("b"))},
		}},
	}})
	defer s.Close()

	s.Navigate("/a")
	s.Render(context.Background())
	s.Navigate("/b")

	if got := renderHTML(t, s.Render(context.Background())); got != "<div><p>b</p></div>" {
		t.Errorf("render = %q", got)
	}
	if len(layout.Children[0].Children) != 0 {
		t.Error("static layout was mutated")
	}
}

func TestShellLazyLoading(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	s := New(Config{
		Loading: vdom.P(vdom.Text("wait")),
		Routes: []Descriptor{{
			Path:  "reports",
			Title: "Reports",
			Lazy: func(ctx context.Context) (vdom.Component, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				<-release
				return textComponent("reports"), nil
			},
		}},
	})
	defer s.Close()

	updated := make(chan struct{}, 1)
	s.OnUpdate(func() {
		select {
		case updated <- struct{}{}:
		default:
		}
	})

	s.Navigate("/reports")
	if got := renderHTML(t, s.Render(context.Background())); got != "<p>wait</p>" {
		t.Errorf("first render = %q, want the loading placeholder", got)
	}
	if got := renderHTML(t, s.Render(context.Background())); got != "<p>wait</p>" {
		t.Errorf("pending render = %q, want the loading placeholder", got)
	}

	close(release)
	select {
	case <-updated:
	case <-time.After(5 * time.Second):
		t.Fatal("no update after the load settled")
	}

	if got := renderHTML(t, s.Render(context.Background())); got != "<p>reports</p>" {
		t.Errorf("resolved render = %q", got)
	}

	s.Navigate("/elsewhere")
	s.Navigate("/reports")
	if got := renderHTML(t, s.Render(context.Background())); got != "<p>reports</p>" {
		t.Errorf("second activation = %q", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestShellLazyFailure(t *testing.T) {
	boom := stderrors.New("boom")
	var reported []error

	s := New(Config{
		Routes: []Descriptor{{
			Path: "broken",
			Lazy: func(context.Context) (vdom.Component, error) { return nil, boom },
		}},
		OnLoadError: func(err error, m Match) { reported = append(reported, err) },
		ErrorBoundary: func(err error, m Match) *vdom.VNode {
			return vdom.P(vdom.Textf("failed %s: %v", m.Pathname, stderrors.Is(err, boom)))
		},
	})
	defer s.Close()

	s.Navigate("/broken")
	waitResolved(t, s)

	if got := renderHTML(t, s.Render(context.Background())); got != "<p>failed /broken: true</p>" {
		t.Errorf("render = %q", got)
	}
	if len(reported) != 1 || !errors.HasCode(reported[0], "R002") {
		t.Errorf("reported = %v, want one R002", reported)
	}
}

func TestShellLazyPanic(t *testing.T) {
	s := New(Config{Routes: []Descriptor{{
		Path: "p",
		Lazy: func(context.Context) (vdom.Component, error) { panic("loader bug") },
	}}})
	defer s.Close()

	s.Navigate("/p")
	waitResolved(t, s)

	if html := renderHTML(t, s.Render(context.Background())); !strings.Contains(html, `role="alert"`) {
		t.Errorf("render = %q, want the default error boundary", html)
	}
}

func TestShellLazyLayoutWithOutlet(t *testing.T) {
	s := New(Config{Routes: []Descriptor{{
		Path: "admin",
		Lazy: func(context.Context) (vdom.Component, error) {
			return vdom.Static(vdom.Div(vdom.Class("admin"), Outlet())), nil
		},
		Children: []Descriptor{{Path: "users", Element: vdom.P(vdom.Text("users"))}},
	}}})
	defer s.Close()

	s.Navigate("/admin/users")
	waitResolved(t, s)

	want := `<div class="admin"><p>users</p></div>`
	if got := renderHTML(t, s.Render(context.Background())); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestShellsShareCompiledNodes(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	descs := []Descriptor{{
		Path: "shared",
		Lazy: func(context.Context) (vdom.Component, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			<-release
			return textComponent("shared"), nil
		},
	}}
	compiler := NewCompiler()

	first := New(Config{Routes: descs, Compiler: compiler})
	defer first.Close()
	second := New(Config{Routes: descs, Compiler: compiler})
	defer second.Close()

	updated := make(chan struct{}, 1)
	second.OnUpdate(func() {
		select {
		case updated <- struct{}{}:
		default:
		}
	})

	first.Navigate("/shared")
	second.Navigate("/shared")
	first.Render(context.Background())
	second.Render(context.Background())
	close(release)

	select {
	case <-updated:
	case <-time.After(5 * time.Second):
		t.Fatal("second shell was not told about the load started by the first")
	}
	if got := renderHTML(t, second.Render(context.Background())); got != "<p>shared</p>" {
		t.Errorf("render = %q", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestShellResolveContextDone(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	s := New(Config{Routes: []Descriptor{{
		Path: "slow",
		Lazy: func(context.Context) (vdom.Component, error) {
			<-block
			return textComponent("slow"), nil
		},
	}}})
	defer s.Close()

	s.Navigate("/slow")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := s.Resolve(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Resolve = %v, want deadline exceeded", err)
	}
}

func TestShellSubscribe(t *testing.T) {
	s := New(Config{Routes: []Descriptor{
		{Path: "a", Element: vdom.P()},
		{Path: "b", Element: vdom.P()},
	}})
	defer s.Close()

	var seen []string
	unsubscribe := s.Subscribe(func(c Chain) { seen = append(seen, c.Leaf().Pathname) })

	s.Navigate("/a")
	unsubscribe()
	s.Navigate("/b")

	if diff := cmp.Diff([]string{"/a"}, seen); diff != "" {
		t.Errorf("published (-want +got):\n%s", diff)
	}
	if s.Location() != "/b" {
		t.Errorf("location = %q, want /b", s.Location())
	}
}

func TestShellSetRoutesRenavigates(t *testing.T) {
	var titles []string
	s := New(Config{
		Host:   Host{SetPageTitle: func(t string) { titles = append(titles, t) }},
		Routes: []Descriptor{{Path: "a", Title: "Old", Element: vdom.P()}},
	})
	defer s.Close()

	s.Navigate("/a")
	next := []Descriptor{{Path: "a", Title: "New", Element: vdom.P()}}
	s.SetRoutes(next)
	s.SetRoutes(next)

	if diff := cmp.Diff([]string{"Old", "New"}, titles); diff != "" {
		t.Errorf("titles (-want +got):\n%s", diff)
	}
}

func TestShellExposesNavigate(t *testing.T) {
	var exposed []func(string)
	s := New(Config{
		Host:   Host{SetNavigate: func(nav func(string)) { exposed = append(exposed, nav) }},
		Routes: []Descriptor{{Path: "a", Element: vdom.P()}},
	})
	defer s.Close()

	if len(exposed) != 1 {
		t.Fatalf("navigate exposed %d times on mount, want 1", len(exposed))
	}
	exposed[0]("/a")
	if s.Location() != "/a" {
		t.Errorf("location = %q, want /a", s.Location())
	}

	nav := &recordingNavigator{}
	if !s.SetNavigator(nav) || s.SetNavigator(nav) {
		t.Error("SetNavigator should publish once per navigator")
	}
	exposed[len(exposed)-1]("/z")
	if diff := cmp.Diff([]string{"/z"}, nav.paths); diff != "" {
		t.Errorf("navigator calls (-want +got):\n%s", diff)
	}
}

func TestShellRenderEmpty(t *testing.T) {
	s := New(Config{Routes: []Descriptor{{Path: "empty"}}})
	defer s.Close()

	s.Navigate("/empty")
	if got := renderHTML(t, s.Render(context.Background())); got != "" {
		t.Errorf("render = %q, want nothing", got)
	}
}
