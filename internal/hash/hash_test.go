//go:build unit

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFNV1a32(t *testing.T) {
	t.Run("matches the known FNV-1a-32 test vector for an empty string", func(t *testing.T) {
		// Prepare
		var alg FNV1a32

		// Execute
		got := alg.Sum32(nil)

		// Check
		assert.Equal(t, uint32(0x811c9dc5), got, "empty key hashes to the FNV offset basis")
	})

	t.Run("is deterministic for the same key", func(t *testing.T) {
		// Prepare
		var alg FNV1a32
		key := []byte("foo")

		// Execute
		a := alg.Sum32(key)
		b := alg.Sum32(key)

		// Check
		assert.Equal(t, a, b, "same key hashes the same")
	})
}

func TestSlotOffset(t *testing.T) {
	t.Run("always lands inside the index region", func(t *testing.T) {
		// Prepare
		var alg FNV1a32
		indexSize := int64(64)

		// Execute & Check
		for _, key := range [][]byte{[]byte("a"), []byte("bb"), []byte("ccc"), []byte("")} {
			off := SlotOffset(alg, key, indexSize)
			assert.GreaterOrEqual(t, off, int64(8), "offset is at or after the header")
			assert.Less(t, off, int64(8)+indexSize, "offset is within the index region")
			assert.Equal(t, int64(0), (off-8)%4, "offset is slot-aligned")
		}
	})

	t.Run("single slot collapses every key to the same offset", func(t *testing.T) {
		// Prepare
		var alg FNV1a32
		indexSize := int64(4)

		// Execute
		a := SlotOffset(alg, []byte("foo"), indexSize)
		b := SlotOffset(alg, []byte("bar"), indexSize)

		// Check
		assert.Equal(t, a, b, "both keys collide into the one slot")
		assert.Equal(t, int64(8), a, "the one slot is right after the header")
	})
}
