package routes

import "strings"

// Params are the path parameters captured along a match.
type Params map[string]string

// Match is one entry of a Chain.
type Match struct {
	// Node is the matched compiled node.
	Node *Node

	// Pathname is the resolved path up to and including this node.
	Pathname string

	// Params are all parameters captured from the root to this node.
	Params Params
}

// Chain is the matched route chain, root first.
type Chain []Match

// Leaf returns the deepest match, or nil for an empty chain.
func (c Chain) Leaf() *Match {
	if len(c) == 0 {
		return nil
	}
	return &c[len(c)-1]
}

// NotFound reports whether the chain is the NotFound catch-all.
func (c Chain) NotFound() bool {
	leaf := c.Leaf()
	return leaf != nil && leaf.Node.IsNotFound()
}

// MatchPath matches path against nodes. The first structural match in
// declaration order wins.
func MatchPath(nodes []*Node, path string) (Chain, bool) {
	return matchLevel(nodes, splitPath(path), "/", nil)
}

func matchLevel(nodes []*Node, segs []string, base string, params Params) (Chain, bool) {
	for _, n := range nodes {
		consumed, captured, ok := matchSegments(n.segments, segs)
		if !ok {
			continue
		}
		rest := segs[consumed:]
		m := Match{
			Node:     n,
			Pathname: joinPath(base, segs[:consumed]...),
			Params:   mergeParams(params, captured),
		}

		if n.Index {
			if len(rest) == 0 {
				return Chain{m}, true
			}
			continue
		}

		if len(n.Children) > 0 {
			if sub, ok := matchLevel(n.Children, rest, m.Pathname, m.Params); ok {
				return append(Chain{m}, sub...), true
			}
		}
		if len(rest) == 0 {
			return Chain{m}, true
		}
	}
	return nil, false
}

// matchSegments matches route segments against the leading path segments.
// It returns how many path segments were consumed.
func matchSegments(route, segs []string) (int, Params, bool) {
	var captured Params
	for i, rs := range route {
		if strings.HasPrefix(rs, "*") {
			name := rs[1:]
			if name == "" {
				name = "*"
			}
			if captured == nil {
				captured = Params{}
			}
			captured[name] = strings.Join(segs[i:], "/")
			return len(segs), captured, true
		}
		if i >= len(segs) {
			return 0, nil, false
		}
		if strings.HasPrefix(rs, ":") {
			if captured == nil {
				captured = Params{}
			}
			captured[rs[1:]] = segs[i]
			continue
		}
		if rs != segs[i] {
			return 0, nil, false
		}
	}
	return len(route), captured, true
}

func mergeParams(parent, own Params) Params {
	if len(parent) == 0 && len(own) == 0 {
		return nil
	}
	out := make(Params, len(parent)+len(own))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range own {
		out[k] = v
	}
	return out
}
