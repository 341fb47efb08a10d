package update

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/the-maldridge/gur/pkg/mirrors"
	"github.com/the-maldridge/gur/pkg/pkgdesc"
	"github.com/the-maldridge/gur/pkg/progress"
)

// Labels stamped on the progress ticks of each git operation.
const (
	labelClone = "Cloning master repo ..."
	labelPull  = "Pulling master repo ..."
	labelFetch = "Fetching %s ..."
)

// An action is the work planned for one master repository.  It is
// picked once, before any I/O, by looking at the store.
type action interface {
	run(ctx context.Context, l Listener) error
}

// initializeRepo handles a master repository that has never been
// cloned.
type initializeRepo struct {
	u *Updater

	repoID string
	branch string
	url    string
}

// updateRepo handles a master repository that is already present.
type updateRepo struct {
	u *Updater

	repoID string
	branch string
}

func (u *Updater) plan(m mirrors.Mirror, repoID string) action {
	if isDir(repoID) {
		u.l.Debug("Master repo present, updating", "repo", repoID, "branch", m.Branch)
		return &updateRepo{u: u, repoID: repoID, branch: m.Branch}
	}
	u.l.Debug("Master repo absent, initializing", "repo", repoID, "branch", m.Branch)
	return &initializeRepo{u: u, repoID: repoID, branch: m.Branch, url: m.RepoURL}
}

func (a *initializeRepo) run(ctx context.Context, l Listener) error {
	l.OnRepoUpdateStart(a.repoID, a.branch)

	relay := progress.NewRelay(l, labelClone)
	if err := a.u.vcs.Clone(ctx, a.url, a.branch, a.repoID, relay); err != nil {
		return err
	}
	relay.Done()

	l.OnRepoUpdateFinish(a.repoID, a.branch)
	return a.u.syncPackages(ctx, l, a.repoID, true)
}

func (a *updateRepo) run(ctx context.Context, l Listener) error {
	l.OnRepoUpdateStart(a.repoID, a.branch)

	relay := progress.NewRelay(l, labelPull)
	if err := a.u.vcs.Pull(ctx, a.repoID, a.branch, relay); err != nil {
		return err
	}
	relay.Done()

	l.OnRepoUpdateFinish(a.repoID, a.branch)
	return a.u.syncPackages(ctx, l, a.repoID, false)
}

// syncPackages walks the package tree of a master repository.  A
// broken descriptor only costs that package; git and database
// failures abort the repository.
func (u *Updater) syncPackages(ctx context.Context, l Listener, repoID string, fresh bool) error {
	dirs, err := subdirs(pkgdesc.PackagesDir(repoID))
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		u.l.Debug("No packages in master repo", "repo", repoID)
	}

	for _, d := range dirs {
		desc, err := pkgdesc.Read(repoID, d)
		if err != nil {
			var malformed pkgdesc.ErrMalformedDescriptor
			if !errors.As(err, &malformed) {
				return err
			}
			if errors.Is(err, fs.ErrNotExist) && isDir(pkgdesc.WorkingCopy(repoID, d)) {
				// Left behind by another branch of the same
				// master repository.
				u.l.Debug("Package not on this branch", "repo", repoID, "package", d)
				continue
			}
			u.l.Warn("Skipping package", "repo", repoID, "package", d, "error", err)
			l.OnError(fmt.Sprintf("malformed package descriptor %s in %s", d, repoID))
			continue
		}

		l.OnPkgUpdateStart(desc.Name, desc.Branch)
		if fresh || !isDir(desc.Dir) {
			err = u.initializePackage(ctx, l, desc)
		} else {
			err = u.updatePackage(ctx, l, desc)
		}
		if err != nil {
			return err
		}
		l.OnPkgUpdateFinish(desc.Name, desc.Branch)
	}
	return nil
}

// initializePackage creates the working copy of a package and records
// it.  A half-initialized working copy is removed again so the next
// run retries from scratch instead of updating a record that was
// never added.
func (u *Updater) initializePackage(ctx context.Context, l Listener, d *pkgdesc.Descriptor) (err error) {
	defer func() {
		if err == nil {
			return
		}
		if rmErr := os.RemoveAll(d.Dir); rmErr != nil {
			u.l.Warn("Unable to clean up package checkout", "path", d.Dir, "error", rmErr)
		}
	}()

	if err = u.vcs.InitRemote(d.Dir, d.Repo); err != nil {
		return err
	}
	hash, err := u.fetch(ctx, l, d)
	if err != nil {
		return err
	}
	u.l.Debug("Adding package", "package", d.Name, "remote", hash)
	return u.db.AddEntry(d.Name, hash)
}

func (u *Updater) updatePackage(ctx context.Context, l Listener, d *pkgdesc.Descriptor) error {
	hash, err := u.fetch(ctx, l, d)
	if err != nil {
		return err
	}
	u.l.Debug("Updating package", "package", d.Name, "remote", hash)
	return u.db.UpdateEntry(d.Name, hash)
}

// fetch updates the working copy of a package and returns the commit
// its branch points to upstream.
func (u *Updater) fetch(ctx context.Context, l Listener, d *pkgdesc.Descriptor) (string, error) {
	relay := progress.NewRelay(l, fmt.Sprintf(labelFetch, d.Name))
	if err := u.vcs.Fetch(ctx, d.Dir, relay); err != nil {
		return "", err
	}
	relay.Done()

	return u.vcs.Resolve(d.Dir, "origin/"+d.Branch)
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// subdirs lists the visible directories in dir in lexical order.  A
// missing dir has no subdirectories.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := []string{}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
