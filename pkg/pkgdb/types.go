package pkgdb

import (
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/gur/pkg/storage"
)

// Rev holds the two commit hashes tracked per package.
type Rev struct {
	// Remote is the upstream commit last observed by a sync.
	Remote string `json:"remote"`

	// Local is the commit actually installed.  Only the installer
	// writes it.
	Local string `json:"local"`
}

// An Entry is one package record.
type Entry struct {
	Name string `json:"name"`
	Rev  Rev    `json:"rev"`
}

// Manager owns the package database for the duration of a run.  The
// whole database is one JSON array stored under a single key and is
// rewritten on every mutation.  There is no locking; a single writer
// is assumed.
type Manager struct {
	l hclog.Logger

	root string
	key  []byte

	s storage.Storage
}
