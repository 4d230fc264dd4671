// Package render turns vdom trees into HTML.
//
// The Renderer writes element, text, fragment, component and raw nodes to
// an io.Writer. Attributes are written in sorted order so output is
// deterministic, text and attribute values are escaped, and event handlers
// are not rendered as attributes. Interactive elements get a
// data-on-<event> marker so a thin client can bind them.
//
// RenderPage wraps a body tree in a complete HTML document with a title,
// stylesheets and scripts.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(vdom.Div(vdom.Text("hi")))
package render
