package bc

import (
	"path/filepath"

	"git.mills.io/prologic/bitcask"
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/gur/pkg/storage"
)

// DirName is the directory under the store root holding the log.
// It is hidden so that walks over the store skip it.
const DirName = ".pkgdb"

// bcStore is the type that must satisfy storage.Storage
type bcStore struct {
	s *bitcask.Bitcask

	l    hclog.Logger
	path string
}

func init() {
	storage.RegisterCallback(newFactory)
}

func newFactory() {
	storage.RegisterFactory("bitcask", newBCStore)
}

func newBCStore(l hclog.Logger, root string) (storage.Storage, error) {
	x := new(bcStore)
	x.l = l.Named("bitcask")
	x.path = filepath.Join(root, DirName)
	return x, nil
}

// open is deferred to first use so that a missing store root is
// reported by the caller that owns it rather than silently created
// here.
func (b *bcStore) open() error {
	if b.s != nil {
		return nil
	}

	opts := []bitcask.Option{
		bitcask.WithMaxKeySize(1024),
		bitcask.WithMaxValueSize(1024 * 1000 * 32), // 32MiB
		bitcask.WithSync(true),
	}
	s, err := bitcask.Open(b.path, opts...)
	if err != nil {
		b.l.Error("Error initializing bitcask", "path", b.path, "error", err)
		return err
	}
	b.s = s
	return nil
}

func (b *bcStore) Get(k []byte) ([]byte, error) {
	if err := b.open(); err != nil {
		return nil, err
	}
	v, err := b.s.Get(k)
	switch err {
	case nil:
		return v, nil
	case bitcask.ErrKeyNotFound:
		return nil, nil
	default:
		return nil, err
	}
}

func (b *bcStore) Put(k, v []byte) error {
	if err := b.open(); err != nil {
		return err
	}
	return b.s.Put(k, v)
}

func (b *bcStore) Del(k []byte) error {
	if err := b.open(); err != nil {
		return err
	}
	return b.s.Delete(k)
}

func (b *bcStore) Close() error {
	if b.s == nil {
		return nil
	}
	return b.s.Close()
}
