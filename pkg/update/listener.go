package update

import (
	"github.com/the-maldridge/gur/pkg/progress"
)

// Listener receives the events of an update run.  The presentation
// layer implements it.
type Listener interface {
	progress.Listener

	// OnUpdateStart and OnUpdateFinish bracket the whole run.
	OnUpdateStart()
	OnUpdateFinish()

	// OnMasterRepoUpdateStart and OnMasterRepoUpdateFinish bracket
	// everything done for one mirror, packages included.  The
	// finish event is skipped when the mirror fails.
	OnMasterRepoUpdateStart(repoID, branch string)
	OnMasterRepoUpdateFinish(repoID, branch string)

	// OnRepoUpdateStart and OnRepoUpdateFinish bracket the clone or
	// pull of the master repository itself.
	OnRepoUpdateStart(repoID, branch string)
	OnRepoUpdateFinish(repoID, branch string)

	OnPkgUpdateStart(name, branch string)
	OnPkgUpdateFinish(name, branch string)

	OnError(msg string)
}

// ListListener receives the events of a package listing.
type ListListener interface {
	OnPkgListStart(repoID string)
	OnPkgShow(name string, installed bool)
	OnPkgListFinish(repoID string)
}
