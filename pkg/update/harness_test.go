package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/gur/pkg/mirrors"
	"github.com/the-maldridge/gur/pkg/pkgdb"
	"github.com/the-maldridge/gur/pkg/pkgdesc"
	"github.com/the-maldridge/gur/pkg/progress"
	"github.com/the-maldridge/gur/pkg/source"
	"github.com/the-maldridge/gur/pkg/storage"
	_ "github.com/the-maldridge/gur/pkg/storage/file"
)

// recorder is a Listener that flattens every event into a string.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnUpdateStart() { r.add("update-start") }
func (r *recorder) OnUpdateFinish() { r.add("update-finish") }
func (r *recorder) OnMasterRepoUpdateStart(id, b string) {
	r.add("master-start %s %s", id, b)
}
func (r *recorder) OnMasterRepoUpdateFinish(id, b string) {
	r.add("master-finish %s %s", id, b)
}
func (r *recorder) OnRepoUpdateStart(id, b string) { r.add("repo-start %s %s", id, b) }
func (r *recorder) OnRepoUpdateFinish(id, b string) { r.add("repo-finish %s %s", id, b) }
func (r *recorder) OnPkgUpdateStart(n, b string) { r.add("pkg-start %s %s", n, b) }
func (r *recorder) OnPkgUpdateFinish(n, b string) { r.add("pkg-finish %s %s", n, b) }
func (r *recorder) OnError(msg string) { r.add("error %s", msg) }
func (r *recorder) OnUpdateProgress(op progress.OpCode, cur, total int, label string) {
	r.add("progress %d %d/%d %s", op, cur, total, label)
}

func (r *recorder) OnPkgListStart(id string) { r.add("list-start %s", id) }
func (r *recorder) OnPkgShow(name string, inst bool) { r.add("show %s %t", name, inst) }
func (r *recorder) OnPkgListFinish(id string) { r.add("list-finish %s", id) }

// remote is the content of a fake master repository: package
// directory to descriptor JSON.
type remote map[string]string

// fakeVCS materializes master repositories on disk without any git.
// Package working copies remember their remote URL in a file.
type fakeVCS struct {
	calls []string

	remotes map[string]remote
	hashes  map[string]string
	fail    map[string]bool

	// ticks makes fetches report some progress.
	ticks bool

	cloned map[string]string
}

func newFakeVCS() *fakeVCS {
	return &fakeVCS{
		remotes: make(map[string]remote),
		hashes:  make(map[string]string),
		fail:    make(map[string]bool),
		cloned:  make(map[string]string),
	}
}

var errFake = errors.New("fake failure")

func (f *fakeVCS) materialize(url, path string) error {
	for dir, desc := range f.remotes[url] {
		d := filepath.Join(path, pkgdesc.SrcDir, dir)
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(d, pkgdesc.FileName), []byte(desc), 0o644); err != nil {
			return err
		}
	}
	return os.MkdirAll(path, 0o755)
}

func (f *fakeVCS) Clone(_ context.Context, url, branch, path string, _ io.Writer) error {
	f.calls = append(f.calls, fmt.Sprintf("clone %s %s %s", url, branch, path))
	if f.fail["clone "+url] {
		return source.NewErrCommand(source.CmdClone, path, errFake)
	}
	f.cloned[path] = url
	return f.materialize(url, path)
}

func (f *fakeVCS) Pull(_ context.Context, path, branch string, _ io.Writer) error {
	f.calls = append(f.calls, fmt.Sprintf("pull %s %s", path, branch))
	if f.fail["pull "+path] {
		return source.NewErrCommand(source.CmdPull, path, errFake)
	}
	return f.materialize(f.cloned[path], path)
}

func (f *fakeVCS) InitRemote(path, url string) error {
	f.calls = append(f.calls, fmt.Sprintf("init %s %s", path, url))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, "remote"), []byte(url), 0o644)
}

func (f *fakeVCS) remoteOf(path string) string {
	b, _ := os.ReadFile(filepath.Join(path, "remote"))
	return string(b)
}

func (f *fakeVCS) Fetch(_ context.Context, path string, w io.Writer) error {
	f.calls = append(f.calls, fmt.Sprintf("fetch %s", path))
	if f.fail["fetch "+f.remoteOf(path)] {
		return source.NewErrCommand(source.CmdFetch, path, errFake)
	}
	if f.ticks {
		fmt.Fprint(w, "Receiving objects: 100% (3/3), done.\n")
	}
	return nil
}

func (f *fakeVCS) Resolve(path, rev string) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("resolve %s %s", path, rev))
	url := f.remoteOf(path)
	if f.fail["resolve "+url] {
		return "", source.NewErrCommand(source.CmdRevParse, path, errFake)
	}
	return f.hashes[url], nil
}

type mirrorList []mirrors.Mirror

func (m mirrorList) List() ([]mirrors.Mirror, error) {
	return m, nil
}

type harness struct {
	root string
	db   *pkgdb.Manager
	vcs  *fakeVCS
	rec  *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	storage.SetLogger(hclog.NewNullLogger())
	storage.DoCallbacks()

	root := t.TempDir()
	s, err := storage.Initialize("file", root)
	require.NoError(t, err)

	// Execute moves the process into the store, make sure we come
	// back.
	chdir(t, t.TempDir())

	return &harness{
		root: root,
		db:   pkgdb.New(hclog.NewNullLogger(), root, s, ""),
		vcs:  newFakeVCS(),
		rec:  new(recorder),
	}
}

func (h *harness) updater(m ...mirrors.Mirror) *Updater {
	return New(
		WithLogger(hclog.NewNullLogger()),
		WithVCS(h.vcs),
		WithDatabase(h.db),
		WithMirrors(mirrorList(m)),
	)
}

func descriptor(name, repo, branch string) string {
	return fmt.Sprintf(`{"name":%q,"repo":%q,"branch":%q}`, name, repo, branch)
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
