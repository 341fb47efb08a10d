// Package pkgdesc loads package descriptors from the package tree of
// a master repository.
package pkgdesc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SrcDir is the subtree of a master repository holding one
	// directory per package.
	SrcDir = "src"

	// FileName is the descriptor inside every package directory.
	FileName = "pkg_desc.json"

	// RepoDir is the reserved subpath for the package working copy.
	RepoDir = ".repo"
)

// A Descriptor is what the maintainers of a master repository publish
// about one package.
type Descriptor struct {
	Name   string `json:"name"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`

	// Dir is the working copy of the package, relative to the
	// store root.
	Dir string `json:"-"`
}

// ErrMalformedDescriptor is returned when a descriptor is missing or
// doesn't hold the expected triple.
type ErrMalformedDescriptor struct {
	Path string
	Err  error
}

func (e ErrMalformedDescriptor) Error() string {
	return fmt.Sprintf("malformed package descriptor %s: %v", e.Path, e.Err)
}

func (e ErrMalformedDescriptor) Unwrap() error {
	return e.Err
}

// PackagesDir returns the package tree of a master repository.
func PackagesDir(repoID string) string {
	return filepath.Join(repoID, SrcDir)
}

// Path returns the descriptor location for a package directory.
func Path(repoID, pkgDir string) string {
	return filepath.Join(repoID, SrcDir, pkgDir, FileName)
}

// WorkingCopy returns the location of the package checkout.
func WorkingCopy(repoID, pkgDir string) string {
	return filepath.Join(repoID, SrcDir, pkgDir, RepoDir)
}

// Read loads the descriptor of pkgDir inside the master repository
// repoID.  Nothing is cached, every call hits the disk.
func Read(repoID, pkgDir string) (*Descriptor, error) {
	p := Path(repoID, pkgDir)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, ErrMalformedDescriptor{p, err}
	}

	d := Descriptor{}
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, ErrMalformedDescriptor{p, err}
	}

	switch {
	case d.Name == "":
		return nil, ErrMalformedDescriptor{p, errors.New("name is empty")}
	case d.Repo == "":
		return nil, ErrMalformedDescriptor{p, errors.New("repo is empty")}
	case d.Branch == "":
		return nil, ErrMalformedDescriptor{p, errors.New("branch is empty")}
	}

	d.Dir = WorkingCopy(repoID, pkgDir)
	return &d, nil
}
