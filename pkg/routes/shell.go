package routes

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

// maxRedirects bounds how many redirects one navigation follows.
const maxRedirects = 8

const defaultTracerName = "shellkit/routes"

// Config configures a Shell.
type Config struct {
	// Routes are the author route descriptors.
	Routes []Descriptor

	// Host receives title, breadcrumbs and the navigate function.
	Host Host

	// RedirectIndexTo, when set, makes the root index ("/") redirect to
	// this path, ahead of any other root index route.
	RedirectIndexTo string

	// Loading replaces DefaultLoading while lazy content resolves.
	Loading *vdom.VNode

	// NotFound replaces DefaultNotFound. suggestion is the closest known
	// path or "".
	NotFound func(path, suggestion string) *vdom.VNode

	// NotFoundHandle is the metadata published while NotFound renders.
	NotFoundHandle Handle

	// ErrorBoundary replaces DefaultErrorBoundary for failed lazy loads.
	ErrorBoundary func(err error, m Match) *vdom.VNode

	// OnLoadError is told about every failed lazy load.
	OnLoadError func(err error, m Match)

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics

	// TracerName is the OpenTelemetry tracer name.
	TracerName string

	// Compiler, when set, is shared with other shells. Shells compiling
	// the same Routes slice through one Compiler share compiled nodes and
	// therefore lazy content. Its warning hook replaces the shell's.
	Compiler *Compiler
}

// Navigation describes the outcome of one navigation.
type Navigation struct {
	// Requested is the path passed to Navigate.
	Requested string

	// Location is the final path after redirects.
	Location string

	// Chain is the published match chain.
	Chain Chain

	// Redirected is true when at least one redirect was followed.
	Redirected bool

	// NotFound is true when the NotFound catch-all matched.
	NotFound bool

	outcome string
}

// Outcome returns the metrics outcome label of the navigation.
func (n Navigation) Outcome() string {
	return n.outcome
}

type subscription[F any] struct {
	id uint64
	fn F
}

// Shell is one mounted route renderer. It owns the current location, the
// match chain and its derived metadata. Navigate, Render and SetRoutes are
// meant to be called from one goroutine; lazy loads settle on their own
// goroutines and are announced through OnUpdate.
type Shell struct {
	cfg      Config
	logger   *slog.Logger
	tracer   trace.Tracer
	compiler *Compiler
	meta     *MetaSync
	exposer  *NavExposer

	mu        sync.Mutex
	routes    []*Node
	root      []*Node
	notFound  *Node
	location  string
	chain     Chain
	navigated bool
	closed    bool
	nextID    uint64
	subs      []subscription[func(Chain)]
	updates   []subscription[func()]
	watching  map[*lazyContent]bool
}

// New mounts a shell. The navigate function is published to the host
// immediately; title and breadcrumbs follow the first navigation.
func New(cfg Config) *Shell {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "routes")

	tracerName := cfg.TracerName
	if tracerName == "" {
		tracerName = defaultTracerName
	}

	s := &Shell{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		notFound: &Node{
			Path:     "*",
			Target:   TargetStatic,
			Handle:   cfg.NotFoundHandle,
			segments: []string{"*"},
			notFound: true,
		},
	}
	s.compiler = cfg.Compiler
	if s.compiler == nil {
		s.compiler = NewCompiler(WithWarnings(func(e *errors.ShellError) {
			logger.Warn(e.Message, "code", e.Code, "route", e.Location.String())
		}))
	}

	nodes, _ := s.compiler.compile(cfg.Routes)
	s.routes = nodes
	s.root = s.buildRoot(nodes)

	s.meta = NewMetaSync(cfg.Host)
	if s.meta.Enabled() {
		s.Subscribe(func(c Chain) { s.meta.Sync(c) })
	}
	s.exposer = NewNavExposer(cfg.Host.SetNavigate)
	s.exposer.Bind(s)

	cfg.Metrics.shellMounted()
	return s
}

func (s *Shell) buildRoot(nodes []*Node) []*Node {
	root := make([]*Node, 0, len(nodes)+2)
	if target := strings.TrimSpace(s.cfg.RedirectIndexTo); target != "" {
		root = append(root, &Node{
			Index:    true,
			Target:   TargetEmpty,
			Redirect: joinPath(target),
		})
	}
	root = append(root, nodes...)
	return append(root, s.notFound)
}

// Routes returns the compiled author routes.
func (s *Shell) Routes() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routes
}

// Tree returns the full match tree, including the redirect node and the
// NotFound catch-all.
func (s *Shell) Tree() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// SetRoutes replaces the route descriptors. The tree is only rebuilt when
// descs is a different slice than the current one; the current location is
// then matched again.
func (s *Shell) SetRoutes(descs []Descriptor) {
	nodes, fresh := s.compiler.compile(descs)
	if !fresh {
		return
	}

	s.mu.Lock()
	s.routes = nodes
	s.root = s.buildRoot(nodes)
	loc, navigated := s.location, s.navigated
	s.mu.Unlock()

	if navigated {
		s.NavigateContext(context.Background(), loc)
	}
}

// Location returns the current path after redirects.
func (s *Shell) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Chain returns a copy of the current match chain.
func (s *Shell) Chain() Chain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(Chain(nil), s.chain...)
}

// Navigate implements Navigator.
func (s *Shell) Navigate(path string) {
	s.NavigateContext(context.Background(), path)
}

// NavigateContext matches path, follows redirects and publishes the final
// chain to subscribers.
func (s *Shell) NavigateContext(ctx context.Context, path string) Navigation {
	ctx, span := s.tracer.Start(ctx, "shellkit.navigate",
		trace.WithAttributes(attribute.String("shellkit.path", path)))
	defer span.End()

	s.mu.Lock()
	root := s.root
	s.mu.Unlock()

	nav := s.resolve(root, path)
	span.SetAttributes(
		attribute.String("shellkit.location", nav.Location),
		attribute.String("shellkit.outcome", nav.outcome),
	)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nav
	}
	s.location = nav.Location
	s.chain = nav.Chain
	s.navigated = true
	subs := append([]subscription[func(Chain)](nil), s.subs...)
	s.mu.Unlock()

	s.cfg.Metrics.recordNavigation(nav.outcome)
	s.logger.Debug("navigate",
		"requested", nav.Requested,
		"location", nav.Location,
		"outcome", nav.outcome,
		"depth", len(nav.Chain))

	for _, sub := range subs {
		sub.fn(nav.Chain)
	}
	return nav
}

func (s *Shell) resolve(root []*Node, path string) Navigation {
	nav := Navigation{Requested: path}
	current := cleanLocation(path)

	for hops := 0; ; hops++ {
		chain, ok := MatchPath(root, current)
		if !ok {
			chain = s.notFoundChain(current)
		}
		leaf := chain.Leaf()
		if leaf.Node.Redirect == "" {
			nav.Location = current
			nav.Chain = chain
			nav.NotFound = chain.NotFound()
			switch {
			case nav.NotFound:
				nav.outcome = OutcomeNotFound
			case nav.Redirected:
				nav.outcome = OutcomeRedirected
			default:
				nav.outcome = OutcomeMatched
			}
			return nav
		}

		if hops >= maxRedirects {
			err := errors.New("R003").AtRoute(current, 0)
			s.logger.Error(err.Message, "code", err.Code, "requested", path, "last", current)
			nav.Location = current
			nav.Chain = s.notFoundChain(current)
			nav.NotFound = true
			nav.outcome = OutcomeRedirectLoop
			return nav
		}
		current = leaf.Node.Redirect
		nav.Redirected = true
	}
}

func (s *Shell) notFoundChain(path string) Chain {
	return Chain{{
		Node:     s.notFound,
		Pathname: path,
		Params:   Params{"*": strings.Trim(path, "/")},
	}}
}

// cleanLocation strips query and fragment and normalizes slashes.
func cleanLocation(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return joinPath(path)
}

// SetNavigator publishes nav to the host instead of the shell itself,
// e.g. a navigator that also records browser history. It reports whether
// the host was called.
func (s *Shell) SetNavigator(nav Navigator) bool {
	return s.exposer.Bind(nav)
}

// Subscribe registers fn to receive every published chain. The returned
// function removes the subscription.
func (s *Shell) Subscribe(fn func(Chain)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[func(Chain)]{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = removeSub(s.subs, id)
	}
}

// OnUpdate registers fn to be called when a lazy load settles and the
// rendered output would change. fn runs on the loader goroutine.
func (s *Shell) OnUpdate(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.updates = append(s.updates, subscription[func()]{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.updates = removeSub(s.updates, id)
	}
}

func removeSub[F any](subs []subscription[F], id uint64) []subscription[F] {
	for i, sub := range subs {
		if sub.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

// Close unmounts the shell. Subscriptions are dropped; in-flight loads
// finish but notify nobody.
func (s *Shell) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subs = nil
	s.updates = nil
	s.watching = nil
	s.mu.Unlock()

	s.cfg.Metrics.shellClosed()
}

// Render renders the current chain. Lazy nodes that were never activated
// start loading and render the Loading placeholder until they settle.
func (s *Shell) Render(ctx context.Context) *vdom.VNode {
	s.mu.Lock()
	chain, loc := s.chain, s.location
	s.mu.Unlock()

	if out := s.renderAt(ctx, chain, 0, loc); out != nil {
		return out
	}
	return vdom.Fragment()
}

func (s *Shell) renderAt(ctx context.Context, chain Chain, i int, loc string) *vdom.VNode {
	if i >= len(chain) {
		return nil
	}
	m := chain[i]
	n := m.Node
	child := func() *vdom.VNode { return s.renderAt(ctx, chain, i+1, loc) }

	if n.notFound {
		return s.renderNotFound(loc)
	}
	if n.Redirect != "" {
		return nil
	}

	switch n.Target {
	case TargetStatic:
		return fillOutlets(n.Element, child)
	case TargetPassThrough:
		return child()
	case TargetLazy:
		state, comp, err := n.lazy.snapshot()
		switch state {
		case lazyIdle:
			s.startLoad(ctx, m)
			return s.loading()
		case lazyPending:
			s.watch(n.lazy)
			return s.loading()
		case lazyFailed:
			return s.errorBoundary(err, m)
		}
		return fillOutlets(comp.Render(), child)
	default:
		return nil
	}
}

func (s *Shell) loading() *vdom.VNode {
	if s.cfg.Loading != nil {
		return s.cfg.Loading
	}
	return DefaultLoading()
}

func (s *Shell) renderNotFound(loc string) *vdom.VNode {
	suggestion := Suggest(s.Routes(), loc)
	if s.cfg.NotFound != nil {
		return s.cfg.NotFound(loc, suggestion)
	}
	return DefaultNotFound(loc, suggestion)
}

func (s *Shell) errorBoundary(err error, m Match) *vdom.VNode {
	err = errors.New("R002").Wrap(err)
	if s.cfg.ErrorBoundary != nil {
		return s.cfg.ErrorBoundary(err, m)
	}
	return DefaultErrorBoundary(err, m)
}

// startLoad activates the lazy content of m. When another shell sharing
// the node got there first, the shell watches that load instead.
func (s *Shell) startLoad(ctx context.Context, m Match) {
	var began time.Time
	started := m.Node.lazy.start(ctx, loadHooks{
		begin: func(ctx context.Context) context.Context {
			began = time.Now()
			ctx, _ = s.tracer.Start(ctx, "shellkit.lazy_load",
				trace.WithAttributes(attribute.String("shellkit.route", m.Pathname)))
			return ctx
		},
		settle: func(ctx context.Context, _ vdom.Component, err error) {
			elapsed := time.Since(began)
			span := trace.SpanFromContext(ctx)
			if err != nil {
				loadErr := errors.New("R002").Wrap(err)
				span.RecordError(err)
				span.SetStatus(codes.Error, loadErr.Message)
				s.logger.Error(loadErr.Message,
					"code", loadErr.Code,
					"route", m.Pathname,
					"error", err)
				if s.cfg.OnLoadError != nil {
					s.cfg.OnLoadError(loadErr, m)
				}
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()

			s.cfg.Metrics.recordLazyLoad(err, elapsed)
			s.notifyUpdate()
		},
	})
	if !started {
		s.watch(m.Node.lazy)
		return
	}
	s.mu.Lock()
	if !s.closed {
		if s.watching == nil {
			s.watching = make(map[*lazyContent]bool)
		}
		s.watching[m.Node.lazy] = true
	}
	s.mu.Unlock()
}

// watch notifies OnUpdate subscribers once l settles. Loads started by
// this shell notify from their settle hook; this covers loads started
// elsewhere.
func (s *Shell) watch(l *lazyContent) {
	s.mu.Lock()
	if s.closed || s.watching[l] {
		s.mu.Unlock()
		return
	}
	if s.watching == nil {
		s.watching = make(map[*lazyContent]bool)
	}
	s.watching[l] = true
	s.mu.Unlock()

	go func() {
		_ = l.wait(context.Background())
		s.notifyUpdate()
	}()
}

func (s *Shell) notifyUpdate() {
	s.mu.Lock()
	updates := append([]subscription[func()](nil), s.updates...)
	s.mu.Unlock()
	for _, u := range updates {
		u.fn()
	}
}

// Resolve starts every lazy node of the current chain and waits for all of
// them to settle. Failed loads are not errors here; they render through the
// error boundary. Resolve only fails when ctx is done first.
func (s *Shell) Resolve(ctx context.Context) error {
	s.mu.Lock()
	chain := s.chain
	s.mu.Unlock()

	var waiting []*lazyContent
	for _, m := range chain {
		if m.Node.Target != TargetLazy {
			continue
		}
		state, _, _ := m.Node.lazy.snapshot()
		if state == lazyIdle {
			s.startLoad(ctx, m)
		}
		waiting = append(waiting, m.Node.lazy)
	}
	for _, l := range waiting {
		if err := l.wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
