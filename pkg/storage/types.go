package storage

// Storage is an interface for a generic blobstore.  Get returns nil
// without an error for keys that have never been written.
type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Del([]byte) error

	Close() error
}
