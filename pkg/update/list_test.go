package update

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/gur/pkg/pkgdesc"
)

// populate lays out a store by hand: repoID -> package dir ->
// descriptor, an empty descriptor leaves the file out.
func populate(t *testing.T, root string, tree map[string]map[string]string) {
	t.Helper()
	for repoID, pkgs := range tree {
		for dir, desc := range pkgs {
			d := filepath.Join(root, repoID, pkgdesc.SrcDir, dir)
			require.NoError(t, os.MkdirAll(d, 0o755))
			if desc == "" {
				continue
			}
			require.NoError(t, os.WriteFile(filepath.Join(d, pkgdesc.FileName), []byte(desc), 0o644))
		}
	}
}

func TestListWalk(t *testing.T) {
	h := newHarness(t)
	populate(t, h.root, map[string]map[string]string{
		"alice/core": {
			"zlib": descriptor("zlib", "https://github.com/alice/zlib.git", "main"),
			"curl": descriptor("curl", "https://github.com/alice/curl.git", "main"),
		},
		"bob/extra": {
			"tool-dir": descriptor("tool", "https://github.com/bob/tool.git", "dev"),
			"nodesc":   "",
		},
	})
	// Not a master repository, nothing to list.
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "bob", "empty"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, ".hidden", "x", "src", "y"), 0o755))

	require.NoError(t, h.db.AddEntry("curl", "c1"))
	require.NoError(t, h.db.SetInstalled("curl", "c1"))
	require.NoError(t, h.db.AddEntry("zlib", "z1"))

	require.NoError(t, NewLister(hclog.NewNullLogger(), h.db).Execute(h.rec))

	assert.Equal(t, []string{
		"list-start alice/core",
		"show curl true",
		"show zlib false",
		"list-finish alice/core",
		"list-start bob/empty",
		"list-finish bob/empty",
		"list-start bob/extra",
		"show nodesc false",
		"show tool false",
		"list-finish bob/extra",
	}, h.rec.events)
}

func TestListEmptyStore(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, NewLister(hclog.NewNullLogger(), h.db).Execute(h.rec))
	assert.Empty(t, h.rec.events)
}

func TestListHTTP(t *testing.T) {
	h := newHarness(t)
	populate(t, h.root, map[string]map[string]string{
		"alice/core": {"curl": descriptor("curl", "https://github.com/alice/curl.git", "main")},
	})
	require.NoError(t, h.db.AddEntry("curl", "c1"))
	require.NoError(t, h.db.SetInstalled("curl", "c1"))

	r := chi.NewRouter()
	r.Mount("/api/pkgs", NewLister(hclog.NewNullLogger(), h.db).HTTPEntry())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/pkgs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []RepoListing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []RepoListing{
		{Repo: "alice/core", Packages: []PkgListing{{Name: "curl", Installed: true}}},
	}, got)

	one, err := http.Get(srv.URL + "/api/pkgs/alice/core")
	require.NoError(t, err)
	one.Body.Close()
	assert.Equal(t, http.StatusOK, one.StatusCode)

	missing, err := http.Get(srv.URL + "/api/pkgs/alice/nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestListHTTPEncodeFailureIsLogged(t *testing.T) {
	h := newHarness(t)
	populate(t, h.root, map[string]map[string]string{
		"alice/core": {"curl": descriptor("curl", "https://github.com/alice/curl.git", "main")},
	})

	var logs bytes.Buffer
	l := hclog.New(&hclog.LoggerOptions{Output: &logs, Level: hclog.Warn})
	ls := NewLister(l, h.db)

	w := brokenWriter{httptest.NewRecorder()}
	ls.HTTPEntry().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "Error encoding package list")
	assert.Contains(t, logs.String(), "connection reset")
}
