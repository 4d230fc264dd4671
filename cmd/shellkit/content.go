package main

import (
	"github.com/vango-dev/shellkit/pkg/manifest"
	"github.com/vango-dev/shellkit/pkg/routes"
	"github.com/vango-dev/shellkit/pkg/ui"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

// registerBuiltins adds the static content names every manifest can use:
//
//	outlet     the matched child only
//	layout     a page section wrapping the matched child
//	directory  a card per top-level route, tagged static or lazy
func registerBuiltins(reg *manifest.Registry, tree func() []routes.Descriptor) {
	reg.Register("outlet", routes.Outlet())
	reg.Register("layout", vdom.Section(vdom.Class("shell-layout"), routes.Outlet()))
	reg.Register("directory", &vdom.VNode{
		Kind: vdom.KindComponent,
		Comp: vdom.Func(func() *vdom.VNode { return directory(tree()) }),
	})
}

// directory lists routes with a path as linked cards.
func directory(descs []routes.Descriptor) *vdom.VNode {
	var cards []*vdom.VNode
	for _, d := range flattenLayouts(descs) {
		if d.Path == "" || d.Index {
			continue
		}
		href := "/" + d.Path
		title := d.Title
		if title == "" {
			title = href
		}
		kind := "static"
		if d.Element == nil && d.Lazy != nil {
			kind = "lazy"
		}
		cards = append(cards, ui.Card{
			Title: title,
			Body:  vdom.A(vdom.Href(href), vdom.Text(href)),
			Footer: ui.Pill{
				Label:    kind,
				Selected: kind == "lazy",
			}.Render(),
		}.Render())
	}
	return vdom.Div(vdom.Class("shell-directory"), cards)
}

// flattenLayouts lifts the children of pathless routes to their parent's
// level.
func flattenLayouts(descs []routes.Descriptor) []routes.Descriptor {
	var out []routes.Descriptor
	for _, d := range descs {
		if d.Path == "" && !d.Index && len(d.Children) > 0 {
			out = append(out, flattenLayouts(d.Children)...)
			continue
		}
		out = append(out, d)
	}
	return out
}
