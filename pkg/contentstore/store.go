// Package contentstore fetches HTML fragments for lazy routes.
//
// A Store returns the bytes stored under a key. Loader adapts a Store to a
// routes.LazyFunc so manifests can declare lazy content by key:
//
//	store := contentstore.NewDirStore(os.DirFS("content"))
//	reg := manifest.NewRegistry(store)
//
// Fragments are trusted author content and are rendered unescaped.
package contentstore

import (
	"context"
	"fmt"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/routes"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

// DefaultMaxSize is the fragment size limit used when none is configured.
const DefaultMaxSize = 4 << 20

// Store fetches fragments by key.
type Store interface {
	// Fetch returns the fragment stored under key. A missing key yields an
	// S001 error.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
}

// Fragment renders a fetched HTML fragment.
type Fragment struct {
	Key  string
	HTML string
}

// Render implements vdom.Component.
func (f Fragment) Render() *vdom.VNode {
	return vdom.Div(
		vdom.Class("shell-content"),
		vdom.Data("content-key", f.Key),
		vdom.Raw(f.HTML),
	)
}

// Loader returns a lazy loader that fetches key from store.
func Loader(store Store, key string) routes.LazyFunc {
	return func(ctx context.Context) (vdom.Component, error) {
		data, err := store.Fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		return Fragment{Key: key, HTML: string(data)}, nil
	}
}

func notFound(key string, err error) error {
	e := errors.New("S001").WithDetail(fmt.Sprintf("key %q", key))
	if err != nil {
		e = e.Wrap(err)
	}
	return e
}

func requestFailed(key string, err error) error {
	return errors.New("S002").
		WithDetail(fmt.Sprintf("key %q", key)).
		Wrap(err)
}

func tooLarge(key string, limit int64) error {
	return errors.New("S002").
		WithDetail(fmt.Sprintf("key %q exceeds %d bytes", key, limit))
}
