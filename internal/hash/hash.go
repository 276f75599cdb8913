// Package hash implements bucket selection: a pluggable Algorithm and the
// slot-offset calculation built on top of it. FNV1a32 is the on-disk
// format's default and only
// cross-implementation-compatible choice; other algorithms may be
// substituted by a caller who accepts giving that compatibility up.
package hash

import (
	"hash/fnv"

	"github.com/cespare/xxhash/v2"
	"github.com/arvidsson/gokv/internal/conf"
)

// Algorithm - Interface that permits a caller to supply a custom bucket
// selection algorithm, following the shape of hashfunc.HashAlgorithm
// but collapsed to the single hash
// function a separate-chaining slot locator needs.
type Algorithm interface {
	// Sum32 - Returns a 32-bit hash of key.
	Sum32(key []byte) uint32
}

// FNV1a32 - The default Algorithm and the file format's on-disk contract:
// a compliant reader/writer of the same file must use this exact hash,
// since the file format depends on the reduction of this value modulo
// the slot count.
type FNV1a32 struct{}

// Sum32 - Returns the FNV-1a-32 hash of key.
func (FNV1a32) Sum32(key []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(key)
	return h.Sum32()
}

// XXHash32 - An optional, faster Algorithm for callers who do not need the
// resulting file to be readable by another FNV-1a-32 implementation.
type XXHash32 struct{}

// Sum32 - Returns the low 32 bits of the xxHash64 digest of key.
func (XXHash32) Sum32(key []byte) uint32 {
	return uint32(xxhash.Sum64(key))
}

// SlotCount - Returns the number of index slots for the given index_size.
func SlotCount(indexSize int64) int64 {
	return indexSize / conf.SlotWidth
}

// SlotOffset - Returns the byte offset into the index region at which the
// slot pointer for key is stored.
func SlotOffset(alg Algorithm, key []byte, indexSize int64) int64 {
	slots := SlotCount(indexSize)
	h := int64(alg.Sum32(key))
	slot := h % slots
	if slot < 0 {
		slot += slots
	}
	return conf.HeaderLen + slot*conf.SlotWidth
}
