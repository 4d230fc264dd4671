// Package manifest loads route trees from YAML files.
//
// A manifest names its content instead of embedding it: "content" refers
// to static nodes registered in a Registry, "lazy" to keys fetched through
// the registry's content store on first activation.
//
//	redirectIndexTo: /dashboard
//	routes:
//	  - path: dashboard
//	    title: Dashboard
//	    content: dashboard
//	    children:
//	      - index: true
//	        lazy: reports/summary.html
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/routes"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

// Route is one route entry of a manifest file.
type Route struct {
	Path       string  `yaml:"path,omitempty"`
	Index      bool    `yaml:"index,omitempty"`
	Title      string  `yaml:"title,omitempty"`
	Breadcrumb string  `yaml:"breadcrumb,omitempty"`
	Content    string  `yaml:"content,omitempty"`
	Lazy       string  `yaml:"lazy,omitempty"`
	Children   []Route `yaml:"children,omitempty"`

	line int
}

var routeKeys = map[string]bool{
	"path": true, "index": true, "title": true, "breadcrumb": true,
	"content": true, "lazy": true, "children": true,
}

// UnmarshalYAML records the source line of the entry and rejects unknown
// keys.
func (r *Route) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !routeKeys[key.Value] {
				return fmt.Errorf("line %d: unknown route field %q", key.Line, key.Value)
			}
		}
	}
	type plain Route
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = Route(p)
	r.line = value.Line
	return nil
}

// Line returns the line the entry starts on, or 0 when unknown.
func (r Route) Line() int {
	return r.line
}

// File is the document layout of a manifest.
type File struct {
	RedirectIndexTo string  `yaml:"redirectIndexTo,omitempty"`
	Routes          []Route `yaml:"routes"`
}

// LazySource produces loaders for lazy content keys.
type LazySource interface {
	Loader(key string) routes.LazyFunc
}

// Registry resolves the content names used by manifests.
type Registry struct {
	mu      sync.RWMutex
	content map[string]*vdom.VNode
	store   LazySource
}

// NewRegistry creates a registry. store may be nil when no manifest uses
// lazy content.
func NewRegistry(store LazySource) *Registry {
	return &Registry{
		content: make(map[string]*vdom.VNode),
		store:   store,
	}
}

// Register makes node available as static content under name.
func (r *Registry) Register(name string, node *vdom.VNode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content[name] = node
}

// Names returns the registered content names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.content))
	for name := range r.content {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (*vdom.VNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.content[name]
	return n, ok
}

// Manifest is a loaded manifest.
type Manifest struct {
	// RedirectIndexTo is the root index redirect target, or "".
	RedirectIndexTo string

	// Routes are the resolved descriptors.
	Routes []routes.Descriptor

	// File is the decoded document.
	File File
}

// Load decodes a manifest and resolves its content names against reg.
func Load(r io.Reader, reg *Registry) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("M001").Wrap(err)
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, errors.New("M001").
			WithDetail(err.Error()).
			Wrap(err)
	}

	if reg == nil {
		reg = NewRegistry(nil)
	}
	descs, err := resolve(file.Routes, reg)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		RedirectIndexTo: file.RedirectIndexTo,
		Routes:          descs,
		File:            file,
	}, nil
}

// LoadFile loads the manifest at path.
func LoadFile(path string, reg *Registry) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("M001").
			WithDetail(fmt.Sprintf("cannot open %s", path)).
			Wrap(err)
	}
	defer f.Close()
	return Load(f, reg)
}

func resolve(entries []Route, reg *Registry) ([]routes.Descriptor, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	descs := make([]routes.Descriptor, 0, len(entries))
	for _, e := range entries {
		d := routes.Descriptor{
			Path:       e.Path,
			Index:      e.Index,
			Title:      e.Title,
			Breadcrumb: e.Breadcrumb,
		}

		if e.Content != "" {
			node, ok := reg.lookup(e.Content)
			if !ok {
				return nil, errors.New("M002").
					WithDetail(fmt.Sprintf("line %d: content %q is not registered", e.line, e.Content)).
					WithSuggestion(registeredHint(reg.Names()))
			}
			d.Element = node
		}
		if e.Lazy != "" {
			if reg.store == nil {
				return nil, errors.New("M003").
					WithDetail(fmt.Sprintf("line %d: lazy key %q", e.line, e.Lazy)).
					WithSuggestion("Configure a content directory or S3 bucket")
			}
			d.Lazy = reg.store.Loader(e.Lazy)
		}

		children, err := resolve(e.Children, reg)
		if err != nil {
			return nil, err
		}
		d.Children = children
		descs = append(descs, d)
	}
	return descs, nil
}

func registeredHint(known []string) string {
	if len(known) == 0 {
		return "Register the content before loading the manifest"
	}
	return fmt.Sprintf("Registered content: %v", known)
}
