package ui

import "github.com/vango-dev/shellkit/pkg/vdom"

// Card is a titled content block. A card with OnSelect is clickable and
// keyboard reachable.
type Card struct {
	ID       string
	Title    string
	Body     *vdom.VNode
	Footer   *vdom.VNode
	Class    string
	OnSelect func()
}

// Render implements vdom.Component.
func (c Card) Render() *vdom.VNode {
	clickable := c.OnSelect != nil

	var titleID string
	if c.ID != "" && c.Title != "" {
		titleID = c.ID + "-title"
	}

	node := vdom.Article(
		vdom.Class("card", c.Class),
		vdom.ClassIf(clickable, "card-clickable"),
		idAttr(c.ID),
		idRef(vdom.AriaLabelledBy, titleID),
		vdom.When(c.Title != "", func() *vdom.VNode {
			return vdom.H3(vdom.Class("card-title"), idAttr(titleID), vdom.Text(c.Title))
		}),
		vdom.When(c.Body != nil, func() *vdom.VNode {
			return vdom.Div(vdom.Class("card-body"), c.Body)
		}),
		vdom.When(c.Footer != nil, func() *vdom.VNode {
			return vdom.Footer(vdom.Class("card-footer"), c.Footer)
		}),
	)
	if clickable {
		makeClickable(node, c.OnSelect)
	}
	return node
}

// makeClickable exposes a non-interactive element as a button: role,
// focusability, click and Enter/Space activation.
func makeClickable(node *vdom.VNode, fn func()) {
	node.Props["role"] = "button"
	node.Props["tabindex"] = 0
	setHandler(node, vdom.OnClick(fn))
	setHandler(node, vdom.OnKeyDown(func(key string) {
		if isActivationKey(key) {
			fn()
		}
	}))
}

func setHandler(node *vdom.VNode, h vdom.EventHandler) {
	node.Props[h.Event] = h.Handler
}

func isActivationKey(key string) bool {
	return key == "Enter" || key == " " || key == "Spacebar"
}

func idAttr(id string) vdom.Attr {
	if id == "" {
		return vdom.Attr{}
	}
	return vdom.ID(id)
}

func idRef(attr func(string) vdom.Attr, id string) vdom.Attr {
	if id == "" {
		return vdom.Attr{}
	}
	return attr(id)
}
