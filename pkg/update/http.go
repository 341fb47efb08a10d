package update

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HTTPEntry provides the mountpoint for the package listing into the
// shared webserver routing tree.
func (ls *Lister) HTTPEntry() chi.Router {
	r := chi.NewRouter()

	r.Get("/", ls.httpList)
	r.Get("/{owner}/{repo}", ls.httpListRepo)

	return r
}

func (ls *Lister) httpList(w http.ResponseWriter, r *http.Request) {
	c := new(Collector)
	if err := ls.Execute(c); err != nil {
		ls.l.Warn("Error listing packages", "error", err)
		jsonError(w, err, http.StatusInternalServerError)
		return
	}
	if c.Repos == nil {
		c.Repos = []RepoListing{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(c.Repos); err != nil {
		ls.l.Warn("Error encoding package list", "error", err)
	}
}

func (ls *Lister) httpListRepo(w http.ResponseWriter, r *http.Request) {
	want := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")

	c := new(Collector)
	if err := ls.Execute(c); err != nil {
		ls.l.Warn("Error listing packages", "error", err)
		jsonError(w, err, http.StatusInternalServerError)
		return
	}
	for _, repo := range c.Repos {
		if repo.Repo != want {
			continue
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(repo); err != nil {
			ls.l.Warn("Error encoding package list", "repo", want, "error", err)
		}
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func jsonError(w http.ResponseWriter, err error, code int) {
	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	out := struct {
		Error string
	}{
		Error: err.Error(),
	}
	enc.Encode(out)
}
