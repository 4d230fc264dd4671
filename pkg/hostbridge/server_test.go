package hostbridge

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/shellkit/pkg/routes"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

type recordingReporter struct {
	mu     sync.Mutex
	routes []string
}

func (r *recordingReporter) ReportLoadError(err error, m routes.Match, session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, m.Pathname)
}

func (r *recordingReporter) Flush(context.Context) {}

func (r *recordingReporter) reported() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRoutes() []routes.Descriptor {
	return []routes.Descriptor{
		{Path: "", Breadcrumb: "Home", Element: vdom.Div(vdom.Class("layout"), routes.Outlet()), Children: []routes.Descriptor{
			{Path: "home", Title: "Welcome", Element: vdom.P(vdom.Text("home page"))},
			{Path: "reports", Title: "Reports", Lazy: func(context.Context) (vdom.Component, error) {
				return vdom.Static(vdom.P(vdom.Text("report data"))), nil
			}},
			{Path: "broken", Title: "Broken", Lazy: func(context.Context) (vdom.Component, error) {
				return nil, stderrors.New("backend down")
			}},
		}},
	}
}

func newTestServer(t *testing.T, reporter Reporter) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(Config{
		Routes:          testRoutes(),
		RedirectIndexTo: "/home",
		Metrics:         routes.NewMetrics(routes.WithRegistry(reg)),
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Reporter:        reporter,
		Logger:          quietLogger(),
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPageRender(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/home")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Welcome</title>",
		`<a href="/">Home</a>`,
		`<span aria-current="page">Welcome</span>`,
		`<main id="shell-root"><div class="layout"><p>home page</p></div></main>`,
		"/_shell/ws",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestPageRedirect(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/?utm=1")

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/home?utm=1" {
		t.Errorf("Location = %q, want /home?utm=1", loc)
	}
}

func TestPageNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/hom")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Page not found") || !strings.Contains(body, `href="/home"`) {
		t.Errorf("unexpected body:\n%s", body)
	}
	if strings.Contains(body, "<title>") {
		t.Errorf("NotFound page should carry no title:\n%s", body)
	}
}

func TestPageLazyContentResolved(t *testing.T) {
	s := newTestServer(t, nil)

	body := get(t, s, "/reports").Body.String()

	if !strings.Contains(body, "<p>report data</p>") {
		t.Errorf("lazy content not rendered:\n%s", body)
	}
	if strings.Contains(body, "Loading") {
		t.Errorf("server render should not show the placeholder:\n%s", body)
	}
}

func TestPageLazyFailureReported(t *testing.T) {
	reporter := &recordingReporter{}
	s := newTestServer(t, reporter)

	rec := get(t, s, "/broken")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `role="alert"`) {
		t.Errorf("error boundary not rendered:\n%s", body)
	}
	if got := reporter.reported(); len(got) != 1 || got[0] != "/broken" {
		t.Errorf("reported = %v, want [/broken]", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	get(t, s, "/home")
	get(t, s, "/nope")

	rec := get(t, s, "/metrics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`shellkit_routes_navigations_total{outcome="matched"} 1`,
		`shellkit_routes_navigations_total{outcome="not_found"} 1`,
		`shellkit_routes_active_shells 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestBreadcrumbNav(t *testing.T) {
	s := newTestServer(t, nil)
	html, err := s.renderer.RenderToString(BreadcrumbNav([]routes.Breadcrumb{
		{Label: "Home", URL: "/"},
		{Label: "Reports", URL: "/reports"},
	}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<nav aria-label="Breadcrumb" id="shell-breadcrumbs"><ol><li><a href="/">Home</a></li><li><span aria-current="page">Reports</span></li></ol></nav>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRunShutdown(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", Logger: quietLogger()})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
