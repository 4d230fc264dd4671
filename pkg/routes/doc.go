// Package routes implements a declarative route renderer for application
// shells.
//
// Authors describe routes as a tree of Descriptors. Compile turns them into
// Nodes, one per descriptor and in the same order. A Shell owns one mounted
// instance: it matches the current location against the compiled tree,
// follows the optional root index redirect, publishes the resulting Chain
// to subscribers and renders the chain nested through Outlet markers.
//
// # Descriptors
//
//	routes.Descriptor{
//	    Path:       "projects",
//	    Title:      "Projects",
//	    Breadcrumb: "All projects",
//	    Element:    vdom.Div(vdom.H1("Projects"), routes.Outlet()),
//	    Children: []routes.Descriptor{
//	        {Index: true, Element: projectList},
//	        {Path: ":id", Lazy: loadProject, Title: "Project"},
//	    },
//	}
//
// Content is resolved per descriptor: static Element first, then the Lazy
// loader, then a pass-through node when children exist, else an empty node.
// Index routes are leaves; children declared on them are dropped and
// reported as R001 through the compile warning hook.
//
// # Matching
//
// Paths are split on "/". A segment is static, a parameter (":id") or a
// splat ("*" or "*rest", last segment only). Routes are tried in
// declaration order and the first structural match wins. A node with no
// path consumes nothing and matches when its remainder is empty or one of
// its children matches.
//
// # Metadata
//
// MetaSync derives the page title (deepest declared title) and breadcrumbs
// (breadcrumb label, else title, root first) from a Chain and pushes them to
// the Host sinks when the chain changes. NavExposer publishes a navigate
// function to the host whenever the underlying Navigator changes.
package routes
