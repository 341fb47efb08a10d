// Package update synchronizes the local package store with the
// mirrors.  Each mirror names a master repository holding a tree of
// package descriptors, and each package is in turn backed by its own
// upstream repository.  Everything runs sequentially: mirrors one at
// a time, packages one at a time.
package update

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/gur/pkg/mirrors"
	"github.com/the-maldridge/gur/pkg/progress"
	"github.com/the-maldridge/gur/pkg/repoid"
	"github.com/the-maldridge/gur/pkg/source"
)

// New returns an Updater.  Without WithVCS the go-git backed client is
// used.
func New(opts ...Option) *Updater {
	x := Updater{
		l: hclog.NewNullLogger(),
	}
	for _, o := range opts {
		o(&x)
	}
	if x.vcs == nil {
		x.vcs = source.New(x.l)
	}
	return &x
}

// Execute runs a full update.  Failing to enter the store or to read
// the mirror list is returned before any event fires.  Anything that
// goes wrong with an individual mirror is reported to l and the run
// moves on to the next one.
func (u *Updater) Execute(ctx context.Context, l Listener) error {
	if err := u.db.SwitchDir(); err != nil {
		return err
	}
	list, err := u.mirrors.List()
	if err != nil {
		return err
	}

	l.OnUpdateStart()
	for _, m := range list {
		u.syncMirror(ctx, l, m)
	}
	l.OnUpdateFinish()
	return nil
}

func (u *Updater) syncMirror(ctx context.Context, l Listener, m mirrors.Mirror) {
	repoID, err := repoid.Resolve(m.RepoURL)
	if err != nil {
		u.l.Warn("Skipping mirror", "url", m.RepoURL, "branch", m.Branch, "error", err)
		l.OnError(err.Error())
		return
	}

	l.OnMasterRepoUpdateStart(repoID, m.Branch)
	if err := u.plan(m, repoID).run(ctx, l); err != nil {
		u.l.Error("Error syncing master repo", "repo", repoID, "branch", m.Branch, "error", err)
		l.OnUpdateProgress(progress.End, 1, 1, "")
		l.OnError(Describe(err, repoID))
		return
	}
	l.OnMasterRepoUpdateFinish(repoID, m.Branch)
}
