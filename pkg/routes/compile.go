package routes

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vango-dev/shellkit/internal/errors"
)

// CompileOption configures compilation.
type CompileOption func(*compileOptions)

type compileOptions struct {
	warn func(*errors.ShellError)
}

// WithWarnings installs a hook that receives descriptor shapes the compiler
// accepted but had to degrade (R001, R004, R005).
func WithWarnings(fn func(*errors.ShellError)) CompileOption {
	return func(o *compileOptions) {
		o.warn = fn
	}
}

// Compile converts descriptors into compiled nodes. It never fails: every
// descriptor yields exactly one node, in declaration order.
func Compile(descs []Descriptor, opts ...CompileOption) []*Node {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}
	return compileLevel(descs, "/", &o)
}

func compileLevel(descs []Descriptor, parent string, o *compileOptions) []*Node {
	if len(descs) == 0 {
		return nil
	}
	nodes := make([]*Node, 0, len(descs))
	seen := make(map[string]int, len(descs))
	for i := range descs {
		n := compileOne(&descs[i], parent, i, o)
		if key, ok := siblingKey(n); ok {
			if first, dup := seen[key]; dup {
				o.report(errors.New("R004").
					AtRoute(parent, i).
					WithDetail(fmt.Sprintf("Sibling #%d already declares %s. Locations it matches never reach this route.", first, key)).
					WithSuggestion("Remove the duplicate or merge it into the earlier route"))
			} else {
				seen[key] = i
			}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// siblingKey identifies what a node matches among its siblings. Pathless
// layouts are not keyed since several of them can share a level.
func siblingKey(n *Node) (string, bool) {
	switch {
	case n.Index:
		return "an index route", true
	case n.Path != "":
		return fmt.Sprintf("path %q", n.Path), true
	default:
		return "", false
	}
}

func compileOne(d *Descriptor, parent string, pos int, o *compileOptions) *Node {
	n := &Node{
		Path:   normalizePath(d.Path),
		Index:  d.Index,
		Handle: Handle{Title: d.Title, Breadcrumb: d.Breadcrumb},
	}
	n.segments = splitPath(n.Path)

	hasChildren := len(d.Children) > 0 && !d.Index

	switch {
	case d.Element != nil:
		n.Target = TargetStatic
		n.Element = d.Element
		if d.Lazy != nil {
			o.report(errors.New("R005").AtRoute(parent, pos))
		}
	case d.Lazy != nil:
		n.Target = TargetLazy
		n.lazy = newLazyContent(d.Lazy)
	case hasChildren:
		n.Target = TargetPassThrough
	default:
		n.Target = TargetEmpty
	}

	if d.Index && len(d.Children) > 0 {
		o.report(errors.New("R001").
			AtRoute(parent, pos).
			WithSuggestion("Move the children to a sibling route with a path"))
	}
	if hasChildren {
		n.Children = compileLevel(d.Children, joinPath(parent, n.Path), o)
	}
	return n
}

func (o *compileOptions) report(err *errors.ShellError) {
	if o.warn != nil {
		o.warn(err)
	}
}

// Compiler memoizes Compile by identity of the input slice: passing the
// same backing array with the same length returns the previous result.
type Compiler struct {
	opts []CompileOption

	mu      sync.Mutex
	primed  bool
	lastPtr *Descriptor
	lastLen int
	last    []*Node
}

// NewCompiler creates a memoizing compiler.
func NewCompiler(opts ...CompileOption) *Compiler {
	return &Compiler{opts: opts}
}

// Compile returns the compiled tree for descs, reusing the previous result
// when descs is the same slice as last time.
func (c *Compiler) Compile(descs []Descriptor) []*Node {
	nodes, _ := c.compile(descs)
	return nodes
}

// compile also reports whether the tree was rebuilt.
func (c *Compiler) compile(descs []Descriptor) ([]*Node, bool) {
	var ptr *Descriptor
	if len(descs) > 0 {
		ptr = &descs[0]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primed && ptr == c.lastPtr && len(descs) == c.lastLen {
		return c.last, false
	}
	c.last = Compile(descs, c.opts...)
	c.lastPtr = ptr
	c.lastLen = len(descs)
	c.primed = true
	return c.last, true
}

// normalizePath trims surrounding slashes and whitespace. "" means no
// segment.
func normalizePath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

// splitPath splits a normalized or raw path into segments.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// joinPath joins a base path and relative segments into an absolute path.
func joinPath(base string, rel ...string) string {
	parts := splitPath(base)
	for _, r := range rel {
		parts = append(parts, splitPath(r)...)
	}
	return "/" + strings.Join(parts, "/")
}

// FormatTree writes an indented outline of a compiled tree.
func FormatTree(w io.Writer, nodes []*Node) error {
	return formatLevel(w, nodes, "/", 0)
}

func formatLevel(w io.Writer, nodes []*Node, parent string, depth int) error {
	for _, n := range nodes {
		label := joinPath(parent, n.Path)
		switch {
		case n.Redirect != "":
			label += " -> " + n.Redirect
		case n.Index:
			label += " (index)"
		case n.Path == "":
			label += " (layout)"
		}
		line := fmt.Sprintf("%s%s [%s]", strings.Repeat("  ", depth), label, n.Target)
		if n.Handle.Title != "" {
			line += fmt.Sprintf(" title=%q", n.Handle.Title)
		}
		if n.Handle.Breadcrumb != "" {
			line += fmt.Sprintf(" breadcrumb=%q", n.Handle.Breadcrumb)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := formatLevel(w, n.Children, joinPath(parent, n.Path), depth+1); err != nil {
			return err
		}
	}
	return nil
}
