// Package mirrors reads the list of master repositories.  The file
// holds one "branch,repoUrl" pair per line and plays the role that
// sources.list plays for apt.
package mirrors

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// ErrConfiguration is returned when the mirror file is missing or
// cannot be understood.  It is fatal for an update run.
type ErrConfiguration struct {
	Path string
	Line int
	Err  error
}

func (e ErrConfiguration) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("mirror file %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("mirror file %s: %v", e.Path, e.Err)
}

func (e ErrConfiguration) Unwrap() error {
	return e.Err
}

var errNoSeparator = errors.New("expected branch,url")

// New returns a store backed by the file at path.
func New(l hclog.Logger, path string) *Store {
	return &Store{
		l:    l.Named("mirrors"),
		path: path,
	}
}

// List returns the mirrors in file order.  Blank lines and lines
// starting with # are skipped.  Duplicates are kept since the same
// repository may be tracked on several branches.
func (s *Store) List() ([]Mirror, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.l.Error("Mirror file not found", "path", s.path)
		}
		return nil, ErrConfiguration{Path: s.path, Err: err}
	}
	defer f.Close()

	out := []Mirror{}
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		l := strings.TrimSpace(scanner.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		branch, url, ok := strings.Cut(l, ",")
		if !ok {
			return nil, ErrConfiguration{Path: s.path, Line: lineno, Err: errNoSeparator}
		}
		m := Mirror{
			Branch:  strings.TrimSpace(branch),
			RepoURL: strings.TrimSpace(url),
		}
		s.l.Trace("Loaded mirror", "branch", m.Branch, "url", m.RepoURL)
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, ErrConfiguration{Path: s.path, Err: err}
	}
	s.l.Debug("Loaded mirrors", "count", len(out))
	return out, nil
}
