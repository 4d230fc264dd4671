package ui

import "github.com/vango-dev/shellkit/pkg/vdom"

// Toggle is an on/off switch.
type Toggle struct {
	ID       string
	Label    string
	Checked  bool
	Disabled bool
	Class    string

	// OnChange receives the requested state. It is never called while
	// the toggle is disabled.
	OnChange func(checked bool)
}

// Render implements vdom.Component.
func (t Toggle) Render() *vdom.VNode {
	var labelID string
	if t.ID != "" && t.Label != "" {
		labelID = t.ID + "-label"
	}

	sw := vdom.Button(
		vdom.Type("button"),
		vdom.Class("toggle-switch"),
		idAttr(t.ID),
		vdom.Role("switch"),
		vdom.AriaChecked(t.Checked),
		vdom.AriaDisabled(t.Disabled),
		idRef(vdom.AriaLabelledBy, labelID),
		vdom.ClassIf(t.Checked, "toggle-on"),
	)
	if t.Disabled {
		sw.Props["disabled"] = true
	}
	if t.Label != "" && labelID == "" {
		sw.Props["aria-label"] = t.Label
	}
	if t.OnChange != nil && !t.Disabled {
		next := !t.Checked
		setHandler(sw, vdom.OnClick(func() { t.OnChange(next) }))
	}

	return vdom.Label(
		vdom.Class("toggle", t.Class),
		vdom.ClassIf(t.Disabled, "toggle-disabled"),
		sw,
		vdom.When(t.Label != "", func() *vdom.VNode {
			return vdom.Span(vdom.Class("toggle-label"), idAttr(labelID), vdom.Text(t.Label))
		}),
	)
}
