package routes

import (
	"reflect"
	"sync"
)

// Navigator is the navigation primitive of the matching host.
type Navigator interface {
	Navigate(path string)
}

// NavExposer publishes a navigate function to a host sink whenever the
// bound Navigator changes identity.
type NavExposer struct {
	sink func(navigate func(path string))

	mu    sync.Mutex
	bound Navigator
}

// NewNavExposer creates an exposer. A nil sink makes every Bind a no-op.
func NewNavExposer(sink func(navigate func(path string))) *NavExposer {
	return &NavExposer{sink: sink}
}

// Bind publishes nav unless it is the navigator already published. It
// reports whether the sink was called.
func (e *NavExposer) Bind(nav Navigator) bool {
	if e.sink == nil || nav == nil {
		return false
	}

	e.mu.Lock()
	if sameNavigator(e.bound, nav) {
		e.mu.Unlock()
		return false
	}
	e.bound = nav
	e.mu.Unlock()

	e.sink(func(path string) {
		nav.Navigate(path)
	})
	return true
}

// sameNavigator compares navigators by identity. Values of non-comparable
// dynamic types are never considered the same.
func sameNavigator(a, b Navigator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
