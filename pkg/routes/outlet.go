package routes

import "github.com/vango-dev/shellkit/pkg/vdom"

const outletProp = "_shellkit_outlet"

// Outlet marks where a parent route's content renders its matched child.
// Outlets are only found in the tree itself, not inside nested components.
func Outlet() *vdom.VNode {
	return &vdom.VNode{
		Kind:  vdom.KindFragment,
		Props: vdom.Props{outletProp: true},
	}
}

func isOutlet(n *vdom.VNode) bool {
	if n == nil || n.Kind != vdom.KindFragment {
		return false
	}
	v, _ := n.Props[outletProp].(bool)
	return v
}

func hasOutlet(content *vdom.VNode) bool {
	found := false
	content.Walk(func(n *vdom.VNode) bool {
		if found {
			return false
		}
		if isOutlet(n) {
			found = true
			return false
		}
		return true
	})
	return found
}

// fillOutlets returns content with every outlet replaced by the rendered
// child. Content without outlets is returned as is and child is never
// called; otherwise a copy is filled so shared static trees are never
// mutated.
func fillOutlets(content *vdom.VNode, renderChild func() *vdom.VNode) *vdom.VNode {
	if content == nil || !hasOutlet(content) {
		return content
	}
	child := renderChild()
	out := content.Clone()
	out.Walk(func(n *vdom.VNode) bool {
		if isOutlet(n) {
			n.Children = nil
			if child != nil {
				n.Children = []*vdom.VNode{child}
			}
			return false
		}
		return true
	})
	return out
}
