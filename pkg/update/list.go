package update

import (
	"path"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/gur/pkg/pkgdesc"
)

// NewLister returns a Lister reading installation state from db.
func NewLister(l hclog.Logger, db Database) *Lister {
	x := Lister{
		l:  l.Named("list"),
		db: db,
	}
	return &x
}

// Execute walks owner/repo/src/<pkg> below the store root and reports
// every package along with whether it is installed.
func (ls *Lister) Execute(l ListListener) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if err := ls.db.SwitchDir(); err != nil {
		return err
	}

	owners, err := subdirs(".")
	if err != nil {
		return err
	}
	for _, owner := range owners {
		repos, err := subdirs(owner)
		if err != nil {
			return err
		}
		for _, repo := range repos {
			if err := ls.listRepo(l, path.Join(owner, repo)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ls *Lister) listRepo(l ListListener, repoID string) error {
	pkgs, err := subdirs(pkgdesc.PackagesDir(repoID))
	if err != nil {
		return err
	}

	l.OnPkgListStart(repoID)
	for _, p := range pkgs {
		name := p
		if d, err := pkgdesc.Read(repoID, p); err == nil {
			name = d.Name
		} else {
			ls.l.Warn("Listing package without descriptor", "repo", repoID, "package", p, "error", err)
		}

		installed, err := ls.db.IsInstalled(name)
		if err != nil {
			return err
		}
		l.OnPkgShow(name, installed)
	}
	l.OnPkgListFinish(repoID)
	return nil
}

// PkgListing is one package in a Listing.
type PkgListing struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
}

// RepoListing is the listing of one master repository.
type RepoListing struct {
	Repo     string       `json:"repo"`
	Packages []PkgListing `json:"packages"`
}

// Collector is a ListListener that keeps the listing in memory.
type Collector struct {
	Repos []RepoListing
}

// OnPkgListStart opens a new repository in the listing.
func (c *Collector) OnPkgListStart(repoID string) {
	c.Repos = append(c.Repos, RepoListing{Repo: repoID, Packages: []PkgListing{}})
}

// OnPkgShow appends a package to the current repository.
func (c *Collector) OnPkgShow(name string, installed bool) {
	if len(c.Repos) == 0 {
		return
	}
	cur := &c.Repos[len(c.Repos)-1]
	cur.Packages = append(cur.Packages, PkgListing{name, installed})
}

// OnPkgListFinish is a no-op, the repository is complete.
func (c *Collector) OnPkgListFinish(string) {}
