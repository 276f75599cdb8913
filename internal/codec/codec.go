// Package codec implements little-endian fixed-width integer
// serialization: plain encode/decode helpers plus the "0 == none"
// convention for optional 32-bit file offsets. Offsets below the header
// length are never valid record addresses, which is what makes 0 safe to
// use as a sentinel.
package codec

import "encoding/binary"

// PutUint32 - Writes v as a little-endian uint32 at buf[0:4].
func PutUint32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// Uint32 - Reads a little-endian uint32 from buf[0:4].
func Uint32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// PutUint16 - Writes v as a little-endian uint16 at buf[0:2].
func PutUint16(buf []byte, v uint16) {
	binary.LittleEndian.PutUint16(buf, v)
}

// Uint16 - Reads a little-endian uint16 from buf[0:2].
func Uint16(buf []byte) uint16 {
	return binary.LittleEndian.Uint16(buf)
}

// PutOffset - Writes an optional file offset. A zero offset means "none".
func PutOffset(buf []byte, offset int64) {
	PutUint32(buf, uint32(offset))
}

// Offset - Reads an optional file offset. Zero means "none".
func Offset(buf []byte) int64 {
	return int64(Uint32(buf))
}

// FieldUpdate - Three-valued instruction for rewriting one linkage field of
// an address: leave the current on-disk value untouched, clear it to "none"
// (0), or set it to a specific offset. Lets callers distinguish "leave
// alone" from "set to none" from "set to offset X" rather than
// overloading a nested optional.
type FieldUpdate struct {
	set   bool
	value int64
}

// NoChange - A FieldUpdate that leaves the field untouched.
var NoChange = FieldUpdate{}

// SetTo - Returns a FieldUpdate that sets the field to offset.
func SetTo(offset int64) FieldUpdate {
	return FieldUpdate{set: true, value: offset}
}

// Clear - Returns a FieldUpdate that sets the field to "none" (0).
func Clear() FieldUpdate {
	return FieldUpdate{set: true, value: 0}
}

// IsChange - Reports whether this update should be applied at all.
func (f FieldUpdate) IsChange() bool {
	return f.set
}

// Value - Returns the offset to write. Only meaningful when IsChange is true.
func (f FieldUpdate) Value() int64 {
	return f.value
}
