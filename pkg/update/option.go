package update

import (
	"github.com/hashicorp/go-hclog"
)

// WithLogger sets up the logging instance for the updater.
func WithLogger(l hclog.Logger) Option {
	return func(u *Updater) {
		u.l = l.Named("update")
	}
}

// WithVCS replaces the git client, mostly useful in tests.
func WithVCS(v VCS) Option {
	return func(u *Updater) {
		u.vcs = v
	}
}

// WithDatabase provides the package database to record into.
func WithDatabase(db Database) Option {
	return func(u *Updater) {
		u.db = db
	}
}

// WithMirrors provides the list of mirrors to sync.
func WithMirrors(m MirrorSource) Option {
	return func(u *Updater) {
		u.mirrors = m
	}
}
