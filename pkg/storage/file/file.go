// Package file is a storage backend that keeps every key as a plain
// file below the store root.  It is what gives the package database
// its human readable pkg_db.json.
package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/gur/pkg/storage"
)

type fileStore struct {
	l    hclog.Logger
	root string
}

func init() {
	storage.RegisterCallback(newFactory)
}

func newFactory() {
	storage.RegisterFactory("file", newFileStore)
}

func newFileStore(l hclog.Logger, root string) (storage.Storage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	x := fileStore{
		l:    l.Named("file"),
		root: abs,
	}
	return &x, nil
}

func (f *fileStore) path(k []byte) (string, error) {
	key := string(k)
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", errors.New("invalid key " + key)
	}
	return filepath.Join(f.root, key), nil
}

func (f *fileStore) Get(k []byte) ([]byte, error) {
	p, err := f.path(k)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	default:
		return nil, err
	}
}

// Put rewrites the whole file.  There is no temp-file dance: a crash
// mid-write leaves a truncated file behind.
func (f *fileStore) Put(k, v []byte) error {
	p, err := f.path(k)
	if err != nil {
		return err
	}
	f.l.Trace("Writing key", "path", p, "size", len(v))
	return os.WriteFile(p, v, 0o644)
}

func (f *fileStore) Del(k []byte) error {
	p, err := f.path(k)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (f *fileStore) Close() error {
	return nil
}
