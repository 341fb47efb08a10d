package bc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBCStore(t *testing.T) {
	root := t.TempDir()
	s, err := newBCStore(hclog.NewNullLogger(), root)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, DirName))
	assert.True(t, os.IsNotExist(err), "log must not be created before first use")

	v, err := s.Get([]byte("pkg_db.json"))
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Put([]byte("pkg_db.json"), []byte(`[{"name":"p"}]`)))
	v, err = s.Get([]byte("pkg_db.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"p"}]`, string(v))

	require.NoError(t, s.Del([]byte("pkg_db.json")))
	v, err = s.Get([]byte("pkg_db.json"))
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Close())
}
