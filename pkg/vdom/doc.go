// Package vdom provides the virtual node tree used by shellkit components.
//
// A VNode represents an element, text, a fragment, a nested component or a
// raw HTML fragment. Props holds attributes and event handlers. Route
// content, placeholders and the UI building blocks are all expressed as
// VNode trees and turned into HTML by package render.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H2(Text("Title")),
//	    P(Text("Content")),
//	    OnClick(handler),
//	)
//
// Arguments may be nil (ignored), Attr, []Attr, *VNode, []*VNode,
// Component, string (text shorthand) or EventHandler.
//
// # Immutability
//
// Trees handed to the route shell as static content are shared between
// renders. Code that needs to change a shared tree works on Clone.
package vdom
