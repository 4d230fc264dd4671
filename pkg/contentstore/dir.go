package contentstore

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"strings"

	"github.com/vango-dev/shellkit/pkg/routes"
)

// DirStore serves fragments from a file system, usually os.DirFS.
type DirStore struct {
	fsys    fs.FS
	maxSize int64
}

// NewDirStore creates a store reading from fsys.
func NewDirStore(fsys fs.FS) *DirStore {
	return &DirStore{fsys: fsys, maxSize: DefaultMaxSize}
}

// WithMaxSize sets the fragment size limit.
func (s *DirStore) WithMaxSize(n int64) *DirStore {
	s.maxSize = n
	return s
}

// Loader implements manifest.LazySource.
func (s *DirStore) Loader(key string) routes.LazyFunc {
	return Loader(s, key)
}

func (s *DirStore) name(key string) (string, bool) {
	name := strings.TrimPrefix(key, "/")
	return name, fs.ValidPath(name) && name != "."
}

// Fetch implements Store.
func (s *DirStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, ok := s.name(key)
	if !ok {
		return nil, notFound(key, nil)
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, notFound(key, err)
		}
		return nil, requestFailed(key, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, requestFailed(key, err)
	}
	if info.IsDir() {
		return nil, notFound(key, nil)
	}

	data, err := io.ReadAll(io.LimitReader(f, s.maxSize+1))
	if err != nil {
		return nil, requestFailed(key, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, tooLarge(key, s.maxSize)
	}
	return data, nil
}

// Exists implements Store.
func (s *DirStore) Exists(ctx context.Context, key string) (bool, error) {
	name, ok := s.name(key)
	if !ok {
		return false, nil
	}
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, requestFailed(key, err)
	}
	return !info.IsDir(), nil
}
