// Package record implements the fixed 8-byte file header and the 29-byte
// record address layout, plus their little-endian encode/decode pairs.
// One Address layout serves both string records and list nodes; which
// one a given record is comes from its Type tag.
package record

import (
	"github.com/arvidsson/gokv/internal/codec"
	"github.com/arvidsson/gokv/internal/conf"
)

// Header - The 8-byte file header: index_size and ref_count.
type Header struct {
	IndexSize int64
	RefCount  int64
}

// Encode - Serializes h into an 8-byte buffer.
func Encode(h Header) []byte {
	buf := make([]byte, conf.HeaderLen)
	codec.PutUint32(buf[conf.IndexSizeOffset:], uint32(h.IndexSize))
	codec.PutUint32(buf[conf.RefCountOffset:], uint32(h.RefCount))
	return buf
}

// Decode - Deserializes an 8-byte buffer into a Header.
func Decode(buf []byte) Header {
	return Header{
		IndexSize: int64(codec.Uint32(buf[conf.IndexSizeOffset:])),
		RefCount:  int64(codec.Uint32(buf[conf.RefCountOffset:])),
	}
}

// Address - The fixed 29-byte address portion of a record.
// A zero value decoded from an all-zero buffer represents "no record here".
type Address struct {
	Type        uint8
	ChainNext   int64
	ListNext    int64
	ListPrev    int64
	ListEnd     int64
	KeyLen      int64
	ValueLen    int64
	MaxKeyLen   int64
	MaxValueLen int64
}

// IsString - Reports whether the address describes a string record.
func (a Address) IsString() bool {
	return a.Type == conf.RecordTypeString
}

// IsList - Reports whether the address describes a list node.
func (a Address) IsList() bool {
	return a.Type == conf.RecordTypeList
}

// RecordLen - Total on-disk length of the record this address describes:
// the 29-byte address plus its reserved key/value capacity.
func (a Address) RecordLen() int64 {
	return conf.AddressLen + a.MaxKeyLen + a.MaxValueLen
}

// EncodeAddress - Serializes a into a 29-byte buffer.
func EncodeAddress(a Address) []byte {
	buf := make([]byte, conf.AddressLen)
	buf[conf.TypeOffset] = a.Type
	codec.PutOffset(buf[conf.ChainNextOffset:], a.ChainNext)
	codec.PutOffset(buf[conf.ListNextOffset:], a.ListNext)
	codec.PutOffset(buf[conf.ListPrevOffset:], a.ListPrev)
	codec.PutOffset(buf[conf.ListEndOffset:], a.ListEnd)
	codec.PutUint16(buf[conf.KeyLenOffset:], uint16(a.KeyLen))
	codec.PutUint32(buf[conf.ValueLenOffset:], uint32(a.ValueLen))
	codec.PutUint16(buf[conf.MaxKeyLenOffset:], uint16(a.MaxKeyLen))
	codec.PutUint32(buf[conf.MaxValueLenOffset:], uint32(a.MaxValueLen))
	return buf
}

// DecodeAddress - Deserializes a 29-byte buffer into an Address and reports
// whether it was empty (all-zero, i.e. no record at that offset).
func DecodeAddress(buf []byte) (a Address, empty bool) {
	empty = true
	for _, b := range buf[:conf.AddressLen] {
		if b != 0 {
			empty = false
			break
		}
	}
	if empty {
		return Address{}, true
	}

	a = Address{
		Type:        buf[conf.TypeOffset],
		ChainNext:   codec.Offset(buf[conf.ChainNextOffset:]),
		ListNext:    codec.Offset(buf[conf.ListNextOffset:]),
		ListPrev:    codec.Offset(buf[conf.ListPrevOffset:]),
		ListEnd:     codec.Offset(buf[conf.ListEndOffset:]),
		KeyLen:      int64(codec.Uint16(buf[conf.KeyLenOffset:])),
		ValueLen:    int64(codec.Uint32(buf[conf.ValueLenOffset:])),
		MaxKeyLen:   int64(codec.Uint16(buf[conf.MaxKeyLenOffset:])),
		MaxValueLen: int64(codec.Uint32(buf[conf.MaxValueLenOffset:])),
	}
	return a, false
}
