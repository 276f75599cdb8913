//go:build unit

package engine

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidsson/gokv/internal/conf"
	"github.com/arvidsson/gokv/internal/hash"
)

func tempEngine(t *testing.T, indexSize int64) *Engine {
	t.Helper()

	// Prepare
	f, err := os.CreateTemp(t.TempDir(), "gokv-*.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	e, err := Init(f, indexSize, hash.FNV1a32{})
	require.NoError(t, err)
	return e
}

func TestInit(t *testing.T) {
	t.Run("rejects an index size that is not a multiple of 4", func(t *testing.T) {
		// Prepare
		f, err := os.CreateTemp(t.TempDir(), "gokv-*.db")
		require.NoError(t, err)
		defer f.Close()

		// Execute
		_, err = Init(f, 6, hash.FNV1a32{})

		// Check
		assert.Error(t, err)
	})

	t.Run("writes a zeroed header and index", func(t *testing.T) {
		// Prepare & Execute
		e := tempEngine(t, 64)

		// Check
		size, err := e.Size()
		require.NoError(t, err)
		assert.Equal(t, conf.HeaderLen+64, size)
		assert.Equal(t, int64(0), e.RefCount())
	})
}

func TestAppendRecordAndReadBack(t *testing.T) {
	// Prepare
	e := tempEngine(t, 64)
	key := []byte("hello")
	value := []byte("world")

	// Execute
	if err := e.Put(key, value); err != nil {
		t.Fatal(err)
	}

	// Check
	got, err := e.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestRefCountTruncatesToEmpty(t *testing.T) {
	// Prepare
	e := tempEngine(t, 64)
	require.NoError(t, e.Put([]byte("k"), []byte("v")))

	// Execute
	require.NoError(t, e.Remove([]byte("k")))

	// Check
	size, err := e.Size()
	require.NoError(t, err)
	assert.Equal(t, conf.HeaderLen+64, size)
	assert.Equal(t, int64(0), e.RefCount())
}
