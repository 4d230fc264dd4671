package routes

import "github.com/vango-dev/shellkit/pkg/vdom"

// DefaultLoading is the built-in placeholder shown while lazy content
// resolves.
func DefaultLoading() *vdom.VNode {
	return vdom.Div(
		vdom.Class("shell-loading"),
		vdom.Role("status"),
		vdom.AriaBusy(true),
		vdom.AriaLive("polite"),
		vdom.Text("Loading…"),
	)
}

// DefaultNotFound is the built-in placeholder for unmatched paths.
func DefaultNotFound(path, suggestion string) *vdom.VNode {
	return vdom.Section(
		vdom.Class("shell-not-found"),
		vdom.H1(vdom.Text("Page not found")),
		vdom.P(vdom.Text("Nothing matches "), vdom.Code(vdom.Text(path)), vdom.Text(".")),
		vdom.When(suggestion != "", func() *vdom.VNode {
			return vdom.P(
				vdom.Text("Did you mean "),
				vdom.A(vdom.Href(suggestion), vdom.Text(suggestion)),
				vdom.Text("?"),
			)
		}),
	)
}

// DefaultErrorBoundary is the built-in content for a lazy route whose
// loader failed.
func DefaultErrorBoundary(err error, m Match) *vdom.VNode {
	return vdom.Div(
		vdom.Class("shell-error"),
		vdom.Role("alert"),
		vdom.Data("route", m.Pathname),
		vdom.P(vdom.Text("This section could not be loaded.")),
	)
}
