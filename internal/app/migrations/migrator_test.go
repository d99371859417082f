package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded_OrderedAndComplete(t *testing.T) {
	migs, err := Embedded()
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, "001", migs[0].Version)
	assert.Equal(t, "002", migs[1].Version)
	assert.Contains(t, migs[0].SQL, "ON DELETE RESTRICT")
	assert.Contains(t, migs[0].SQL, "users_username_key")
	assert.Contains(t, migs[1].SQL, "requests_live_pair_key")
}

func TestLoad(t *testing.T) {
	t.Run("sorts by version and skips other files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/010_later.sql":  {Data: []byte("SELECT 10;")},
			"m/002_second.sql": {Data: []byte("SELECT 2;")},
			"m/README.md":      {Data: []byte("docs")},
		}
		migs, err := Load(fsys, "m")
		require.NoError(t, err)
		require.Len(t, migs, 2)
		assert.Equal(t, "002", migs[0].Version)
		assert.Equal(t, "010_later.sql", migs[1].Name)
	})

	t.Run("rejects duplicate versions", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/001_a.sql": {Data: []byte("SELECT 1;")},
			"m/001_b.sql": {Data: []byte("SELECT 1;")},
		}
		_, err := Load(fsys, "m")
		assert.Error(t, err)
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		fsys := fstest.MapFS{"m/init.sql": {Data: []byte("SELECT 1;")}}
		_, err := Load(fsys, "m")
		assert.Error(t, err)
	})
}
