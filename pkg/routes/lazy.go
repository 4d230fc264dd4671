package routes

import (
	"context"
	"fmt"
	"sync"

	"github.com/vango-dev/shellkit/pkg/vdom"
)

type lazyState uint8

const (
	lazyIdle lazyState = iota
	lazyPending
	lazyResolved
	lazyFailed
)

func (s lazyState) String() string {
	switch s {
	case lazyIdle:
		return "idle"
	case lazyPending:
		return "pending"
	case lazyResolved:
		return "resolved"
	case lazyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// lazyContent is the load state of one lazy node. The loader runs at most
// once; its outcome is kept for the lifetime of the compiled node.
type lazyContent struct {
	load LazyFunc

	mu    sync.Mutex
	state lazyState
	comp  vdom.Component
	err   error
	done  chan struct{}
}

func newLazyContent(load LazyFunc) *lazyContent {
	return &lazyContent{load: load, done: make(chan struct{})}
}

// loadHooks observe one load. Both run on the loader goroutine.
type loadHooks struct {
	begin  func(ctx context.Context) context.Context
	settle func(ctx context.Context, comp vdom.Component, err error)
}

// start begins loading if nothing has been started yet. It reports whether
// this call started the load.
func (l *lazyContent) start(ctx context.Context, hooks loadHooks) bool {
	l.mu.Lock()
	if l.state != lazyIdle {
		l.mu.Unlock()
		return false
	}
	l.state = lazyPending
	l.mu.Unlock()

	// Navigating away does not abandon the fetch.
	ctx = context.WithoutCancel(ctx)

	go func() {
		if hooks.begin != nil {
			ctx = hooks.begin(ctx)
		}
		comp, err := l.run(ctx)

		l.mu.Lock()
		if err != nil {
			l.state = lazyFailed
			l.err = err
		} else {
			l.state = lazyResolved
			l.comp = comp
		}
		l.mu.Unlock()

		if hooks.settle != nil {
			hooks.settle(ctx, comp, err)
		}
		close(l.done)
	}()
	return true
}

func (l *lazyContent) run(ctx context.Context) (comp vdom.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			comp, err = nil, fmt.Errorf("lazy loader panicked: %v", r)
		}
	}()
	comp, err = l.load(ctx)
	if err == nil && comp == nil {
		comp = vdom.Static(nil)
	}
	return comp, err
}

// snapshot returns the current state and outcome.
func (l *lazyContent) snapshot() (lazyState, vdom.Component, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.comp, l.err
}

// wait blocks until the load settles and its settle hook returned, or
// ctx is done.
func (l *lazyContent) wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
