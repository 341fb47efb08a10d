package storage_test

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/gur/pkg/storage"
	_ "github.com/the-maldridge/gur/pkg/storage/bc"
	_ "github.com/the-maldridge/gur/pkg/storage/file"
)

func TestInitialize(t *testing.T) {
	storage.SetLogger(hclog.NewNullLogger())
	storage.DoCallbacks()

	for _, name := range []string{"file", "bitcask"} {
		s, err := storage.Initialize(name, t.TempDir())
		require.NoError(t, err, name)
		require.NotNil(t, s, name)
		assert.NoError(t, s.Close(), name)
	}

	_, err := storage.Initialize("nope", t.TempDir())
	assert.Error(t, err)
}
