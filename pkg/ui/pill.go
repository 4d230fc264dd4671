package ui

import "github.com/vango-dev/shellkit/pkg/vdom"

// Pill is a compact label, optionally selectable and removable.
type Pill struct {
	Label    string
	Selected bool
	Class    string

	// OnToggle receives the new selected state.
	OnToggle func(selected bool)

	// OnRemove renders a remove button when set.
	OnRemove func()
}

// Render implements vdom.Component.
func (p Pill) Render() *vdom.VNode {
	var label *vdom.VNode
	if p.OnToggle != nil {
		next := !p.Selected
		label = vdom.Button(
			vdom.Type("button"),
			vdom.Class("pill-label"),
			vdom.AriaPressed(p.Selected),
			vdom.OnClick(func() { p.OnToggle(next) }),
			vdom.Text(p.Label),
		)
	} else {
		label = vdom.Span(vdom.Class("pill-label"), vdom.Text(p.Label))
	}

	return vdom.Span(
		vdom.Class("pill", p.Class),
		vdom.ClassIf(p.Selected, "pill-selected"),
		label,
		vdom.When(p.OnRemove != nil, func() *vdom.VNode {
			return vdom.Button(
				vdom.Type("button"),
				vdom.Class("pill-remove"),
				vdom.AriaLabel("Remove "+p.Label),
				vdom.OnClick(p.OnRemove),
				vdom.Span(vdom.AriaHidden(true), vdom.Text("×")),
			)
		}),
	)
}
