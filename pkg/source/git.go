package source

import (
	"context"
	"errors"
	"io"

	git "github.com/go-git/go-git/v5"
	gitConfig "github.com/go-git/go-git/v5/config"
	gitPlumbing "github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"
)

// New creates a new instance of RepoMngr
func New(l hclog.Logger) *RepoMngr {
	x := RepoMngr{
		l:          l.Named("git"),
		RemoteName: git.DefaultRemoteName,
	}
	return &x
}

// Clone creates a git repository at path from url with branch
// checked out.  Every branch is fetched since other mirrors may track
// the same url on another branch.
func (r *RepoMngr) Clone(ctx context.Context, url, branch, path string, progress io.Writer) error {
	r.l.Debug("Cloning repository", "path", path, "url", url, "branch", branch)
	_, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:           url,
		RemoteName:    r.RemoteName,
		ReferenceName: gitPlumbing.NewBranchReferenceName(branch),
		Progress:      progress,
	})
	if err != nil {
		r.l.Trace("Error running PlainClone", "error", err)
		return NewErrCommand(CmdClone, path, err)
	}
	return nil
}

// Pull brings branch of the checkout at path up to date with its
// remote, switching the worktree to it first.  Being up to date
// already is not an error.
func (r *RepoMngr) Pull(ctx context.Context, path, branch string, progress io.Writer) error {
	r.l.Debug("Pulling repository", "path", path, "branch", branch)
	repo, err := git.PlainOpen(path)
	if err != nil {
		r.l.Trace("Error opening repository", "error", err)
		return NewErrCommand(CmdPull, path, err)
	}
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: r.RemoteName,
		Progress:   progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		r.l.Trace("Error fetching", "error", err)
		return NewErrCommand(CmdPull, path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		r.l.Trace("Error getting worktree")
		return NewErrCommand(CmdPull, path, err)
	}
	if err := r.checkout(repo, worktree, branch); err != nil {
		r.l.Trace("Error checking out branch", "branch", branch, "error", err)
		return NewErrCommand(CmdPull, path, err)
	}
	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    r.RemoteName,
		ReferenceName: gitPlumbing.NewBranchReferenceName(branch),
		Progress:      progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		r.l.Trace("Error pulling", "error", err)
		return NewErrCommand(CmdPull, path, err)
	}
	return nil
}

// checkout switches the worktree to branch, creating the local branch
// from its remote counterpart when it doesn't exist yet.
func (r *RepoMngr) checkout(repo *git.Repository, worktree *git.Worktree, branch string) error {
	local := gitPlumbing.NewBranchReferenceName(branch)
	head, err := repo.Head()
	if err == nil && head.Name() == local {
		return nil
	}

	if _, err := repo.Reference(local, true); err == nil {
		return worktree.Checkout(&git.CheckoutOptions{Branch: local})
	}
	remote, err := repo.Reference(gitPlumbing.NewRemoteReferenceName(r.RemoteName, branch), true)
	if err != nil {
		return err
	}
	r.l.Debug("Creating local branch", "branch", branch, "hash", remote.Hash().String())
	return worktree.Checkout(&git.CheckoutOptions{
		Branch: local,
		Hash:   remote.Hash(),
		Create: true,
	})
}

// InitRemote creates an empty repository at path with url as its
// remote.  Nothing is transferred.
func (r *RepoMngr) InitRemote(path, url string) error {
	r.l.Debug("Initializing package checkout", "path", path, "url", url)
	repo, err := git.PlainInit(path, false)
	if err != nil {
		r.l.Trace("Error running PlainInit", "error", err)
		return NewErrCommand(CmdInit, path, err)
	}
	_, err = repo.CreateRemote(&gitConfig.RemoteConfig{
		Name: r.RemoteName,
		URLs: []string{url},
	})
	if err != nil {
		r.l.Trace("Error creating remote", "error", err)
		return NewErrCommand(CmdInit, path, err)
	}
	return nil
}

// Fetch origin
func (r *RepoMngr) Fetch(ctx context.Context, path string, progress io.Writer) error {
	r.l.Debug("Fetching origin for git repository", "path", path)
	repo, err := git.PlainOpen(path)
	if err != nil {
		r.l.Trace("Error opening repository", "error", err)
		return NewErrCommand(CmdFetch, path, err)
	}
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: r.RemoteName,
		Progress:   progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		r.l.Trace("Error fetching", "error", err)
		return NewErrCommand(CmdFetch, path, err)
	}
	return nil
}

// Resolve returns the commit hash rev points to in the repository at
// path, for example "origin/master".
func (r *RepoMngr) Resolve(path, rev string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", NewErrCommand(CmdRevParse, path, err)
	}
	hash, err := repo.ResolveRevision(gitPlumbing.Revision(rev))
	if err != nil {
		r.l.Trace("Error resolving revision", "rev", rev, "error", err)
		return "", NewErrCommand(CmdRevParse, path, err)
	}
	return hash.String(), nil
}
