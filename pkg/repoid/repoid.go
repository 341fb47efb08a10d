// Package repoid derives the owner/name identifier of a master
// repository from its clone URL.  The identifier doubles as the
// directory the repository is checked out into inside the store.
package repoid

import (
	"regexp"
)

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://[^/@\s]+\.[A-Za-z]+/([^/\s]+)/([^/\s]+)\.git$`),
	regexp.MustCompile(`^git@[^:/\s]+\.[A-Za-z]+:([^/\s]+)/([^/\s]+)\.git$`),
}

// ErrInvalidID is returned when a URL does not match any of the
// supported shapes.
type ErrInvalidID struct {
	URL string
}

// NewErrInvalidID returns an error specialized to the offending URL.
func NewErrInvalidID(url string) ErrInvalidID {
	return ErrInvalidID{url}
}

func (e ErrInvalidID) Error() string {
	return "invalid repository url " + e.URL
}

// Resolve returns the owner/name pair for the https or ssh form of a
// git URL.  The https pattern is tried first.
func Resolve(url string) (string, error) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(url)
		if m == nil {
			continue
		}
		return m[1] + "/" + m[2], nil
	}
	return "", NewErrInvalidID(url)
}
