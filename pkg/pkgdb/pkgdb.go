// Package pkgdb maintains the record of known packages and the
// commits they are at, both upstream and installed.
package pkgdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/gur/pkg/storage"
)

// DefaultKey is the name the database is stored under.
const DefaultKey = "pkg_db.json"

// ErrStoreNotFound is returned when the package store root is
// missing.  It is fatal for every command.
type ErrStoreNotFound struct {
	Path string
	Err  error
}

func (e ErrStoreNotFound) Error() string {
	return fmt.Sprintf("the package dir '%s' was not found", e.Path)
}

func (e ErrStoreNotFound) Unwrap() error {
	return e.Err
}

// New returns a manager for the store at root persisting through s
// under key.  An empty key selects DefaultKey.
func New(l hclog.Logger, root string, s storage.Storage, key string) *Manager {
	if key == "" {
		key = DefaultKey
	}
	return &Manager{
		l:    l.Named("pkgdb"),
		root: root,
		key:  []byte(key),
		s:    s,
	}
}

// SwitchDir changes the working directory of the process to the
// store root.  All package paths are resolved relative to it for the
// rest of the run.
func (m *Manager) SwitchDir() error {
	info, err := os.Stat(m.root)
	if err != nil {
		m.l.Error("Package store is unavailable", "path", m.root, "error", err)
		return ErrStoreNotFound{m.root, err}
	}
	if !info.IsDir() {
		return ErrStoreNotFound{m.root, fs.ErrInvalid}
	}
	if err := os.Chdir(m.root); err != nil {
		return ErrStoreNotFound{m.root, err}
	}
	m.l.Debug("Switched to package store", "path", m.root)
	return nil
}

// load reads the whole database, creating it empty on first use.
func (m *Manager) load() ([]Entry, error) {
	b, err := m.s.Get(m.key)
	if err != nil {
		m.l.Error("Error reading package database", "error", err)
		return nil, err
	}
	if b == nil {
		m.l.Debug("Creating empty package database", "key", string(m.key))
		if err := m.s.Put(m.key, []byte("[]")); err != nil {
			return nil, err
		}
		return []Entry{}, nil
	}

	entries := []Entry{}
	if err := json.Unmarshal(b, &entries); err != nil {
		m.l.Error("Package database is corrupt", "error", err)
		return nil, err
	}
	return entries, nil
}

func (m *Manager) persist(entries []Entry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := m.s.Put(m.key, b); err != nil {
		m.l.Error("Error writing package database", "error", err)
		return err
	}
	return nil
}

// Entries returns a snapshot of the database.
func (m *Manager) Entries() ([]Entry, error) {
	return m.load()
}

// AddEntry appends a fresh record for a package.  The local revision
// starts out empty.  No deduplication is performed.
func (m *Manager) AddEntry(name, remote string) error {
	entries, err := m.load()
	if err != nil {
		return err
	}
	entries = append(entries, Entry{Name: name, Rev: Rev{Remote: remote}})
	m.l.Trace("Adding entry", "package", name, "remote", remote)
	return m.persist(entries)
}

// UpdateEntry records a new upstream commit for a package.  Unknown
// packages are ignored since they may have been removed upstream
// between runs.
func (m *Manager) UpdateEntry(name, remote string) error {
	return m.mutate(name, func(e *Entry) { e.Rev.Remote = remote })
}

// SetInstalled records the installed commit for a package.  It is
// the hook used by installers.
func (m *Manager) SetInstalled(name, local string) error {
	return m.mutate(name, func(e *Entry) { e.Rev.Local = local })
}

func (m *Manager) mutate(name string, f func(*Entry)) error {
	entries, err := m.load()
	if err != nil {
		return err
	}
	found := false
	for i := range entries {
		if entries[i].Name == name {
			f(&entries[i])
			found = true
		}
	}
	if !found {
		m.l.Debug("No such package in database", "package", name)
		return nil
	}
	return m.persist(entries)
}

// IsInstalled reports whether the package has a local revision.
func (m *Manager) IsInstalled(name string) (bool, error) {
	entries, err := m.load()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Name == name && e.Rev.Local != "" {
			return true, nil
		}
	}
	return false, nil
}

// Close releases the underlying storage.
func (m *Manager) Close() error {
	if m.s == nil {
		return errors.New("no storage")
	}
	return m.s.Close()
}
