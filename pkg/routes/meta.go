package routes

import "sync"

// PageTitle returns the title of the deepest chain entry that declares
// one.
func PageTitle(chain Chain) (string, bool) {
	for i := len(chain) - 1; i >= 0; i-- {
		if t := chain[i].Node.Handle.Title; t != "" {
			return t, true
		}
	}
	return "", false
}

// Breadcrumbs returns the breadcrumb trail for chain, root first. Entries
// with neither a breadcrumb label nor a title are skipped.
func Breadcrumbs(chain Chain) []Breadcrumb {
	items := make([]Breadcrumb, 0, len(chain))
	for _, m := range chain {
		label := m.Node.Handle.Label()
		if label == "" {
			continue
		}
		items = append(items, Breadcrumb{Label: label, URL: m.Pathname})
	}
	return items
}

type chainKey struct {
	node     *Node
	pathname string
}

// MetaSync pushes the page title and breadcrumbs of the active chain to the
// host sinks. It only calls the sinks when the chain changes, compared by
// node identity and resolved pathname of every entry.
type MetaSync struct {
	host Host

	mu     sync.Mutex
	primed bool
	last   []chainKey
}

// NewMetaSync creates a synchronizer for host.
func NewMetaSync(host Host) *MetaSync {
	return &MetaSync{host: host}
}

// Enabled reports whether any metadata sink is installed.
func (s *MetaSync) Enabled() bool {
	return s.host.SetPageTitle != nil || s.host.SetBreadcrumbs != nil
}

// Sync publishes metadata for chain. It reports whether any sink was
// called. Without a title in the chain SetPageTitle is left alone so the
// host keeps whatever title it had.
func (s *MetaSync) Sync(chain Chain) bool {
	if !s.Enabled() {
		return false
	}

	key := make([]chainKey, len(chain))
	for i, m := range chain {
		key[i] = chainKey{node: m.Node, pathname: m.Pathname}
	}

	s.mu.Lock()
	if s.primed && sameKey(s.last, key) {
		s.mu.Unlock()
		return false
	}
	s.last = key
	s.primed = true
	s.mu.Unlock()

	called := false
	if s.host.SetPageTitle != nil {
		if title, ok := PageTitle(chain); ok {
			s.host.SetPageTitle(title)
			called = true
		}
	}
	if s.host.SetBreadcrumbs != nil {
		s.host.SetBreadcrumbs(Breadcrumbs(chain))
		called = true
	}
	return called
}

func sameKey(a, b []chainKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
