package routes

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the known static path closest to path, or "" when
// nothing is reasonably close. Paths with parameters or splats are not
// candidates.
func Suggest(nodes []*Node, path string) string {
	target := joinPath(path)
	best, bestDist := "", -1
	for _, candidate := range staticPaths(nodes, "/") {
		if candidate == target {
			continue
		}
		d := levenshtein.ComputeDistance(strings.ToLower(target), strings.ToLower(candidate))
		if bestDist == -1 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist == -1 || bestDist > suggestThreshold(target) {
		return ""
	}
	return best
}

func suggestThreshold(path string) int {
	if t := len(path) / 3; t > 2 {
		return t
	}
	return 2
}

// staticPaths lists the absolute paths of routable nodes without dynamic
// segments, in declaration order.
func staticPaths(nodes []*Node, base string) []string {
	var out []string
	seen := map[string]bool{}
	var walk func([]*Node, string)
	walk = func(level []*Node, base string) {
		for _, n := range level {
			if n.notFound || n.Redirect != "" || isDynamic(n.segments) {
				continue
			}
			p := joinPath(base, n.Path)
			if n.Index || (n.Target != TargetPassThrough && n.Target != TargetEmpty) {
				if !seen[p] {
					seen[p] = true
					out = append(out, p)
				}
			}
			walk(n.Children, p)
		}
	}
	walk(nodes, base)
	return out
}

func isDynamic(segs []string) bool {
	for _, s := range segs {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			return true
		}
	}
	return false
}
