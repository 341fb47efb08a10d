package repoid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"https", "https://github.com/foo/bar.git", "foo/bar"},
		{"ssh", "git@github.com:bar/foo.git", "bar/foo"},
		{"other host", "https://gitlab.org/some-user/repo_1.git", "some-user/repo_1"},
		{"dotted name", "git@codeberg.org:me/my.pkgs.git", "me/my.pkgs"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Resolve(c.url)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	urls := []string{
		"https://github.com/foo/bar.get",
		"https://github.com/foo.git",
		"http://github.com/foo/bar.git",
		"git@github.com/foo/bar.git",
		"ssh://git@github.com/foo/bar.git",
		"https://github.com/foo/bar/baz.git",
		"",
	}

	for _, u := range urls {
		id, err := Resolve(u)
		assert.Empty(t, id, u)

		var invalid ErrInvalidID
		require.True(t, errors.As(err, &invalid), u)
		assert.Equal(t, u, invalid.URL)
	}
}
