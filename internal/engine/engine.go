// Package engine implements the address read/update primitives, the
// collision chain iterator, the string engine, and the list engine:
// everything that lives below the top-level API's mutex and above raw
// file I/O. It is grounded on internal/storage/scres (SCFiles.Get/Set/
// Delete, getBucketRecord, setBucketRecord) and
// internal/file/fileprocessing.go, generalized from two fixed-record
// files to one file of variable-length records with collision chains and
// doubly-linked lists sharing the same address layout.
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/arvidsson/gokv/internal/codec"
	"github.com/arvidsson/gokv/internal/conf"
	"github.com/arvidsson/gokv/internal/errs"
	"github.com/arvidsson/gokv/internal/hash"
	"github.com/arvidsson/gokv/internal/record"
)

// Engine - Represents the file backend's single mutable handle over one
// regular file. Callers (the root package's Store) are responsible for
// the mutex and fsync policy; Engine itself performs the reads/writes
// and keeps the cached index_size/ref_count consistent with what is on
// disk.
type Engine struct {
	file      *os.File
	alg       hash.Algorithm
	indexSize int64
	refCount  int64
}

// Init - Creates a new file backend: truncates the already-open file, writes
// a zeroed header and index region. indexSize must be a positive
// multiple of 4.
func Init(file *os.File, indexSize int64, alg hash.Algorithm) (*Engine, error) {
	if indexSize <= 0 || indexSize%conf.SlotWidth != 0 {
		return nil, errs.InvalidAddressSpaceSize{}
	}

	e := &Engine{file: file, alg: alg, indexSize: indexSize, refCount: 0}

	if err := file.Truncate(0); err != nil {
		return nil, fmt.Errorf("error while truncating new file: %w", err)
	}
	if err := e.writeHeader(); err != nil {
		return nil, err
	}
	if err := e.zeroIndex(); err != nil {
		return nil, err
	}

	return e, nil
}

// Open - Opens an existing file backend and reads its header. The caller
// supplies the hash algorithm; using a different algorithm than the one
// the file was created with silently produces wrong bucket lookups, so
// callers should not mix algorithms across opens of the same file.
func Open(file *os.File, alg hash.Algorithm) (*Engine, error) {
	buf := make([]byte, conf.HeaderLen)
	if _, err := file.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("error while reading header: %w", err)
	}
	h := record.Decode(buf)

	if h.IndexSize <= 0 || h.IndexSize%conf.SlotWidth != 0 {
		return nil, errs.Corrupted{}
	}

	return &Engine{file: file, alg: alg, indexSize: h.IndexSize, refCount: h.RefCount}, nil
}

// IndexSize - Returns the size in bytes of the index region.
func (e *Engine) IndexSize() int64 {
	return e.indexSize
}

// SlotCount - Returns the number of index slots.
func (e *Engine) SlotCount() int64 {
	return hash.SlotCount(e.indexSize)
}

// RefCount - Returns the cached number of live records.
func (e *Engine) RefCount() int64 {
	return e.refCount
}

// Size - Returns the current file size.
func (e *Engine) Size() (int64, error) {
	off, err := e.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("error while seeking to end of file: %w", err)
	}
	return off, nil
}

// Sync - Flushes pending writes to stable storage.
func (e *Engine) Sync() error {
	if err := e.file.Sync(); err != nil {
		return fmt.Errorf("error while syncing file: %w", err)
	}
	return nil
}

// --- header -----------------------------------------------------------

func (e *Engine) writeHeader() error {
	buf := record.Encode(record.Header{IndexSize: e.indexSize, RefCount: e.refCount})
	if _, err := e.file.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("error while writing header: %w", err)
	}
	return nil
}

func (e *Engine) zeroIndex() error {
	buf := make([]byte, e.indexSize)
	if _, err := e.file.WriteAt(buf, conf.HeaderLen); err != nil {
		return fmt.Errorf("error while zeroing index: %w", err)
	}
	return nil
}

// --- index --------------------------------------------------------------

// SlotOffset - Returns the index byte offset that owns key.
func (e *Engine) SlotOffset(key []byte) int64 {
	return hash.SlotOffset(e.alg, key, e.indexSize)
}

// ReadSlot - Returns the offset stored at slotOffset, or 0 if empty.
func (e *Engine) ReadSlot(slotOffset int64) (int64, error) {
	buf := make([]byte, conf.SlotWidth)
	if _, err := e.file.ReadAt(buf, slotOffset); err != nil {
		return 0, fmt.Errorf("error while reading index slot: %w", err)
	}
	return codec.Offset(buf), nil
}

// WriteSlot - Overwrites the 4 bytes at slotOffset with value.
func (e *Engine) WriteSlot(slotOffset, value int64) error {
	buf := make([]byte, conf.SlotWidth)
	codec.PutOffset(buf, value)
	if _, err := e.file.WriteAt(buf, slotOffset); err != nil {
		return fmt.Errorf("error while writing index slot: %w", err)
	}
	return nil
}

// --- address / record ----------------------------------------------------

// ReadAddress - Reads the 29-byte address at offset. A short read of a
// supposedly live address, or an offset inside the header or index region,
// is fatal file corruption.
func (e *Engine) ReadAddress(offset int64) (record.Address, error) {
	if offset < conf.HeaderLen+e.indexSize {
		return record.Address{}, errs.Corrupted{}
	}

	buf := make([]byte, conf.AddressLen)
	n, err := e.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return record.Address{}, fmt.Errorf("error while reading record address: %w", err)
	}
	if int64(n) < conf.AddressLen {
		return record.Address{}, errs.Corrupted{}
	}

	addr, empty := record.DecodeAddress(buf)
	if empty {
		return record.Address{}, errs.Corrupted{}
	}
	if !addr.IsString() && !addr.IsList() {
		return record.Address{}, errs.Corrupted{}
	}

	return addr, nil
}

// ReadKey - Reads the live key of the record at offset into a fresh slice.
func (e *Engine) ReadKey(offset int64, addr record.Address) ([]byte, error) {
	buf := make([]byte, addr.KeyLen)
	if addr.KeyLen == 0 {
		return buf, nil
	}
	if _, err := e.file.ReadAt(buf, offset+conf.AddressLen); err != nil {
		return nil, fmt.Errorf("error while reading record key: %w", err)
	}
	return buf, nil
}

// ReadValue - Reads the live value of the record at offset into a fresh slice.
func (e *Engine) ReadValue(offset int64, addr record.Address) ([]byte, error) {
	buf := make([]byte, addr.ValueLen)
	if addr.ValueLen == 0 {
		return buf, nil
	}
	valueOffset := offset + conf.AddressLen + addr.MaxKeyLen
	if _, err := e.file.ReadAt(buf, valueOffset); err != nil {
		return nil, fmt.Errorf("error while reading record value: %w", err)
	}
	return buf, nil
}

// FieldUpdates - A three-valued per-field patch for selectively
// rewriting an address's linkage fields.
type FieldUpdates struct {
	Type      *uint8
	ChainNext codec.FieldUpdate
	ListNext  codec.FieldUpdate
	ListPrev  codec.FieldUpdate
	ListEnd   codec.FieldUpdate
}

// UpdateAddress - Rewrites only the specified fields of the address at
// offset, leaving key_len/value_len/max_key_len/max_value_len and the
// key/value payload untouched.
func (e *Engine) UpdateAddress(offset int64, u FieldUpdates) error {
	if u.Type != nil {
		if _, err := e.file.WriteAt([]byte{*u.Type}, offset+conf.TypeOffset); err != nil {
			return fmt.Errorf("error while updating record type: %w", err)
		}
	}
	if err := e.writeOffsetField(offset+conf.ChainNextOffset, u.ChainNext); err != nil {
		return err
	}
	if err := e.writeOffsetField(offset+conf.ListNextOffset, u.ListNext); err != nil {
		return err
	}
	if err := e.writeOffsetField(offset+conf.ListPrevOffset, u.ListPrev); err != nil {
		return err
	}
	if err := e.writeOffsetField(offset+conf.ListEndOffset, u.ListEnd); err != nil {
		return err
	}
	return nil
}

func (e *Engine) writeOffsetField(fieldOffset int64, u codec.FieldUpdate) error {
	if !u.IsChange() {
		return nil
	}
	buf := make([]byte, 4)
	codec.PutOffset(buf, u.Value())
	if _, err := e.file.WriteAt(buf, fieldOffset); err != nil {
		return fmt.Errorf("error while updating record linkage field at %d: %w", fieldOffset, err)
	}
	return nil
}

// RewriteRecord - Overwrites the address, key, and value bands of an
// existing record in place: used for string in-place update, where the key
// is unchanged and value_len may shrink or grow up to max_value_len, while
// max_key_len/max_value_len (and hence the record's total length) are
// unchanged. Slack after
// value_len is left undisturbed.
func (e *Engine) RewriteRecord(offset int64, addr record.Address, key, value []byte) error {
	buf := make([]byte, conf.AddressLen+int64(len(key))+int64(len(value)))
	copy(buf, record.EncodeAddress(addr))
	copy(buf[conf.AddressLen:], key)
	copy(buf[conf.AddressLen+addr.MaxKeyLen:], value)
	if _, err := e.file.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("error while rewriting record: %w", err)
	}
	return nil
}

// AppendRecord - Writes a brand-new record (address + key + zero-padded
// value slack) at EOF and returns its offset. addr.MaxKeyLen/MaxValueLen
// must already reflect the desired reserved capacity.
func (e *Engine) AppendRecord(addr record.Address, key, value []byte) (int64, error) {
	offset, err := e.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("error while seeking to end of file: %w", err)
	}

	buf := make([]byte, conf.AddressLen+addr.MaxKeyLen+addr.MaxValueLen)
	copy(buf, record.EncodeAddress(addr))
	copy(buf[conf.AddressLen:], key)
	copy(buf[conf.AddressLen+addr.MaxKeyLen:], value)

	if _, err := e.file.WriteAt(buf, offset); err != nil {
		return 0, fmt.Errorf("error while appending record: %w", err)
	}

	return offset, nil
}

// --- reference counting & truncation --------------------------------------

// IncRefCount - Bumps ref_count for a newly created record.
func (e *Engine) IncRefCount() error {
	e.refCount++
	return e.writeHeader()
}

// DecRefCount - Decrements ref_count for a record that became unreachable.
// When it reaches zero, the file is truncated back to header+index and the
// index is zeroed.
func (e *Engine) DecRefCount() error {
	if e.refCount <= 0 {
		panic("gokv: ref_count decremented below zero: logic error")
	}
	e.refCount--
	if e.refCount == 0 {
		return e.truncateToEmpty()
	}
	return e.writeHeader()
}

func (e *Engine) truncateToEmpty() error {
	if err := e.file.Truncate(conf.HeaderLen + e.indexSize); err != nil {
		return fmt.Errorf("error while truncating file to empty: %w", err)
	}
	if err := e.writeHeader(); err != nil {
		return err
	}
	return e.zeroIndex()
}

// ReclaimTail - Shrinks the file to cut off a record that was just freed,
// if and only if that record's bytes sit exactly at EOF. It is always
// safe to skip this call; it is a space-reclaiming optimization, not a
// correctness requirement.
func (e *Engine) ReclaimTail(offset int64, addr record.Address) error {
	size, err := e.Size()
	if err != nil {
		return err
	}
	if offset+addr.RecordLen() == size {
		if err := e.file.Truncate(offset); err != nil {
			return fmt.Errorf("error while reclaiming trailing record: %w", err)
		}
	}
	return nil
}
