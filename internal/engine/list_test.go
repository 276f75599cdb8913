//go:build unit

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidsson/gokv/internal/conf"
	"github.com/arvidsson/gokv/internal/errs"
)

func TestListFIFOAndLIFO(t *testing.T) {
	t.Run("append + pop_head is FIFO", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 64)
		require.NoError(t, e.Append([]byte("a"), []byte("x")))
		require.NoError(t, e.Append([]byte("a"), []byte("y")))
		require.NoError(t, e.Append([]byte("a"), []byte("z")))

		// Execute & Check
		v, err := e.PopHead([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), v)

		v, err = e.PopHead([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("y"), v)

		v, err = e.PopHead([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("z"), v)

		_, err = e.PopHead([]byte("a"))
		assert.ErrorIs(t, err, errs.KeyNotFound{})
	})

	t.Run("append + pop_tail is LIFO", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 64)
		require.NoError(t, e.Append([]byte("a"), []byte("x")))
		require.NoError(t, e.Append([]byte("a"), []byte("y")))
		require.NoError(t, e.Append([]byte("a"), []byte("z")))

		// Execute & Check
		v, err := e.PopTail([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("z"), v)

		v, err = e.PopTail([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("y"), v)

		v, err = e.PopTail([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), v)
	})

	t.Run("prepend + pop_head is LIFO on the head side", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 64)
		require.NoError(t, e.Prepend([]byte("l"), []byte("A")))
		require.NoError(t, e.Prepend([]byte("l"), []byte("B")))
		require.NoError(t, e.Prepend([]byte("l"), []byte("C")))

		// Execute & Check
		v, err := e.PopHead([]byte("l"))
		require.NoError(t, err)
		assert.Equal(t, []byte("C"), v)

		v, err = e.PopHead([]byte("l"))
		require.NoError(t, err)
		assert.Equal(t, []byte("B"), v)

		v, err = e.PopHead([]byte("l"))
		require.NoError(t, err)
		assert.Equal(t, []byte("A"), v)
	})

	t.Run("prepend symmetry: prepend n then pop_tail replays push order", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 64)
		require.NoError(t, e.Prepend([]byte("l"), []byte("v0")))
		require.NoError(t, e.Prepend([]byte("l"), []byte("v1")))
		require.NoError(t, e.Prepend([]byte("l"), []byte("v2")))

		// Execute & Check
		v, err := e.PopTail([]byte("l"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v0"), v)

		v, err = e.PopTail([]byte("l"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), v)

		v, err = e.PopTail([]byte("l"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), v)
	})
}

func TestListOverwriteInteractions(t *testing.T) {
	t.Run("string overwritten by list operation under collision", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 4)
		require.NoError(t, e.Put([]byte("foo"), []byte("baz")))
		require.NoError(t, e.Put([]byte("bar"), []byte("qux")))

		// Execute
		require.NoError(t, e.Append([]byte("bar"), []byte("quux")))

		// Check
		v, err := e.PopTail([]byte("bar"))
		require.NoError(t, err)
		assert.Equal(t, []byte("quux"), v)

		got, err := e.Get([]byte("foo"))
		require.NoError(t, err)
		assert.Equal(t, []byte("baz"), got)
	})

	t.Run("put on a list key replaces the whole list with a string", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 64)
		require.NoError(t, e.Append([]byte("k"), []byte("v1")))
		require.NoError(t, e.Append([]byte("k"), []byte("v2")))

		// Execute
		require.NoError(t, e.Put([]byte("k"), []byte("v3")))

		// Check
		got, err := e.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v3"), got)

		_, err = e.PopTail([]byte("k"))
		assert.ErrorIs(t, err, errs.KeyNotFound{})
	})

	t.Run("get on a list key returns wrong kind", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 64)
		require.NoError(t, e.Append([]byte("k"), []byte("v1")))

		// Execute
		_, err := e.Get([]byte("k"))

		// Check
		assert.ErrorIs(t, err, errs.WrongKind{})
	})
}

func TestPopHeadPromotesSuccessorAcrossCollision(t *testing.T) {
	t.Run("pop_head on a multi-node list threads chain_next onto the promoted node", func(t *testing.T) {
		// Prepare: a single slot so "x", "mid", and "z" all share one
		// collision chain in insertion order: x -> mid -> z. mid is a
		// two-element list, so its head carries both a live ListNext and
		// a live ChainNext at the same time.
		e := tempEngine(t, 4)
		require.NoError(t, e.Put([]byte("x"), []byte("x-val")))
		require.NoError(t, e.Append([]byte("mid"), []byte("v0")))
		require.NoError(t, e.Append([]byte("mid"), []byte("v1")))
		require.NoError(t, e.Put([]byte("z"), []byte("z-val")))

		// Execute: pop mid's head once. The surviving node ("v1") must be
		// promoted into mid's slot position, inheriting the old head's
		// chain_next so "z" stays reachable.
		v, err := e.PopHead([]byte("mid"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v0"), v)

		got, err := e.Get([]byte("z"))
		require.NoError(t, err)
		assert.Equal(t, []byte("z-val"), got)

		// Execute: pop mid's remaining (now singleton) element. This is
		// the always-fully-unlink branch, distinct from pop_tail's
		// tombstone-preserving one; "z" must still be reachable.
		v, err = e.PopHead([]byte("mid"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), v)

		// Check: mid is gone, x and z remain reachable through the chain.
		_, err = e.PopHead([]byte("mid"))
		assert.ErrorIs(t, err, errs.KeyNotFound{})

		got, err = e.Get([]byte("x"))
		require.NoError(t, err)
		assert.Equal(t, []byte("x-val"), got)

		got, err = e.Get([]byte("z"))
		require.NoError(t, err)
		assert.Equal(t, []byte("z-val"), got)
	})
}

func TestListRefCountTruncation(t *testing.T) {
	t.Run("ref-count truncation after draining a list", func(t *testing.T) {
		// Prepare
		e := tempEngine(t, 64)
		values := [][]byte{[]byte("v0"), []byte("v1"), []byte("v2"), []byte("v3"), []byte("v4")}
		for _, v := range values {
			require.NoError(t, e.Append([]byte("k"), v))
		}

		// Execute
		for range values {
			_, err := e.PopHead([]byte("k"))
			require.NoError(t, err)
		}

		// Check
		size, err := e.Size()
		require.NoError(t, err)
		assert.Equal(t, conf.HeaderLen+64, size)
		assert.Equal(t, int64(0), e.RefCount())
	})
}
