// Package conf holds the compile-time layout constants for the on-disk
// file format: header width, address width, field offsets inside an
// address, and the value size bands used for in-place update slack.
package conf

// HeaderLen - Length in bytes of the file header (index_size + ref_count).
const HeaderLen int64 = 8

// IndexSizeOffset - Header offset to index_size (uint32).
const IndexSizeOffset int64 = 0

// RefCountOffset - Header offset to ref_count (uint32).
const RefCountOffset int64 = 4

// SlotWidth - Width in bytes of one index slot pointer.
const SlotWidth int64 = 4

// AddressLen - Length in bytes of the fixed address portion of a record.
const AddressLen int64 = 29

// TypeOffset - Address offset to the type tag (1 byte).
const TypeOffset int64 = 0

// ChainNextOffset - Address offset to chain_next (4 bytes).
const ChainNextOffset int64 = 1

// ListNextOffset - Address offset to list_next (4 bytes).
const ListNextOffset int64 = 5

// ListPrevOffset - Address offset to list_prev (4 bytes).
const ListPrevOffset int64 = 9

// ListEndOffset - Address offset to list_end (4 bytes).
const ListEndOffset int64 = 13

// KeyLenOffset - Address offset to key_len (2 bytes).
const KeyLenOffset int64 = 17

// ValueLenOffset - Address offset to value_len (4 bytes).
const ValueLenOffset int64 = 19

// MaxKeyLenOffset - Address offset to max_key_len (2 bytes).
const MaxKeyLenOffset int64 = 23

// MaxValueLenOffset - Address offset to max_value_len (4 bytes).
const MaxValueLenOffset int64 = 25

// MaxKeyLen - Maximum permitted key length in bytes.
const MaxKeyLen int64 = 1024

// RecordTypeString - Address type tag for a string record.
const RecordTypeString uint8 = 0

// RecordTypeList - Address type tag for a list node record.
const RecordTypeList uint8 = 1

// ValueBands - Size classes used to over-allocate a new value's slack so
// later in-place rewrites of a smaller or equal-size value never need to
// move the record. The last band, exact, is implicit: any value larger
// than the biggest fixed band gets max_value_len == value_len.
var ValueBands = [...]int64{256, 512, 1024, 4096, 8192}

// Band - Returns the smallest entry in ValueBands that is >= n, or n itself
// if n exceeds every band.
func Band(n int64) int64 {
	for _, b := range ValueBands {
		if n <= b {
			return b
		}
	}
	return n
}
