package update

import (
	"context"
	"io"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/gur/pkg/mirrors"
)

// VCS drives the git client.  Paths are relative to the store root.
type VCS interface {
	Clone(ctx context.Context, url, branch, path string, progress io.Writer) error
	Pull(ctx context.Context, path, branch string, progress io.Writer) error
	InitRemote(path, url string) error
	Fetch(ctx context.Context, path string, progress io.Writer) error
	Resolve(path, rev string) (string, error)
}

// Database is the package record store.
type Database interface {
	SwitchDir() error
	AddEntry(name, remote string) error
	UpdateEntry(name, remote string) error
	IsInstalled(name string) (bool, error)
}

// MirrorSource supplies the mirrors to sync.
type MirrorSource interface {
	List() ([]mirrors.Mirror, error)
}

// Updater synchronizes the package store with every mirror.
type Updater struct {
	l hclog.Logger

	vcs     VCS
	db      Database
	mirrors MirrorSource
}

// Lister walks the package store without touching the network.
type Lister struct {
	l  hclog.Logger
	mu sync.Mutex

	db Database
}

// Option configures an Updater.
type Option func(*Updater)
