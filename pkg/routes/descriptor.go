package routes

import (
	"context"

	"github.com/vango-dev/shellkit/pkg/vdom"
)

// LazyFunc loads route content on first activation.
type LazyFunc func(ctx context.Context) (vdom.Component, error)

// Descriptor is an author-supplied route declaration.
type Descriptor struct {
	// Path is the route's own segment(s), relative to its parent.
	// Empty means the route adds no segment.
	Path string

	// Index marks an index route. Index routes are leaves.
	Index bool

	// Title is the page title while this route is matched. Empty means
	// not declared.
	Title string

	// Breadcrumb is the breadcrumb label. Falls back to Title.
	Breadcrumb string

	// Element is static content. It may contain an Outlet marker where
	// the matched child renders.
	Element *vdom.VNode

	// Lazy loads content on first activation. Ignored when Element is set.
	Lazy LazyFunc

	// Children are nested routes, in match priority order.
	Children []Descriptor
}

// Handle is the metadata attached to a compiled node.
type Handle struct {
	Title      string
	Breadcrumb string
}

// Label returns the breadcrumb label, falling back to the title.
func (h Handle) Label() string {
	if h.Breadcrumb != "" {
		return h.Breadcrumb
	}
	return h.Title
}

// Target is how a compiled node produces content.
type Target uint8

const (
	TargetEmpty       Target = iota // renders nothing
	TargetStatic                    // Element
	TargetLazy                      // loaded on first activation
	TargetPassThrough               // renders the matched child only
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetEmpty:
		return "empty"
	case TargetStatic:
		return "static"
	case TargetLazy:
		return "lazy"
	case TargetPassThrough:
		return "pass-through"
	default:
		return "unknown"
	}
}

// Node is a compiled route.
type Node struct {
	Path     string
	Index    bool
	Target   Target
	Element  *vdom.VNode
	Handle   Handle
	Children []*Node

	// Redirect is set on the synthetic root index redirect node.
	Redirect string

	segments []string
	lazy     *lazyContent
	notFound bool
}

// IsNotFound reports whether n is the shell's NotFound catch-all.
func (n *Node) IsNotFound() bool {
	return n != nil && n.notFound
}
