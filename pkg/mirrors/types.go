package mirrors

import (
	"github.com/hashicorp/go-hclog"
)

// A Mirror names one master repository to track and the branch that
// should be followed.
type Mirror struct {
	Branch  string
	RepoURL string
}

// Store reads the mirror list.  The store is read-only as far as the
// sync engine is concerned.
type Store struct {
	l    hclog.Logger
	path string
}
