package source

import (
	"github.com/hashicorp/go-hclog"
)

// A RepoMngr manages the git side of the repositories in the package
// store.  It is stateless apart from its logger: every call opens the
// repository at the path it is given.
type RepoMngr struct {
	l hclog.Logger

	// RemoteName is the remote every checkout tracks.
	RemoteName string
}
