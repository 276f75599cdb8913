package engine

import (
	"github.com/arvidsson/gokv/internal/codec"
	"github.com/arvidsson/gokv/internal/conf"
	"github.com/arvidsson/gokv/internal/errs"
	"github.com/arvidsson/gokv/internal/record"
)

// Put - Sets key to value. Three cases:
//   - key absent: a new record is chained onto its slot.
//   - key present and a string: rewritten in place if value still fits
//     the record's reserved band, otherwise re-homed to a fresh record at
//     EOF with a band sized for the new value.
//   - key present and a list: the whole list is torn down and replaced by
//     a string record.
func (e *Engine) Put(key, value []byte) error {
	pos, err := e.locateChain(key)
	if err != nil {
		return err
	}

	if !pos.found {
		return e.putNew(pos, key, value)
	}

	if pos.match.IsList() {
		return e.putOverList(pos, key, value)
	}

	return e.putOverString(pos, key, value)
}

// putNew - Appends a brand-new string record at EOF. Keys are never
// banded: max_key_len == key_len always, so a later key-length change
// forces a re-home. If the slot was already occupied by an unrelated
// chain, the new record is linked onto the tail rather than the head.
func (e *Engine) putNew(pos chainPos, key, value []byte) error {
	addr := record.Address{
		Type:        conf.RecordTypeString,
		KeyLen:      int64(len(key)),
		ValueLen:    int64(len(value)),
		MaxKeyLen:   int64(len(key)),
		MaxValueLen: conf.Band(int64(len(value))),
	}

	offset, err := e.AppendRecord(addr, key, value)
	if err != nil {
		return err
	}

	if pos.chainHead == 0 {
		if err := e.WriteSlot(pos.slotOffset, offset); err != nil {
			return err
		}
	} else {
		if err := e.UpdateAddress(pos.tailOffset, FieldUpdates{ChainNext: codec.SetTo(offset)}); err != nil {
			return err
		}
	}

	return e.IncRefCount()
}

func (e *Engine) putOverString(pos chainPos, key, value []byte) error {
	if int64(len(value)) <= pos.match.MaxValueLen {
		addr := pos.match
		addr.ValueLen = int64(len(value))
		return e.RewriteRecord(pos.matchOffset, addr, key, value)
	}
	return e.rehome(pos, key, value)
}

// putOverList - Frees every node of the existing list and writes a string
// record in its place in the chain. Only the head node was reachable
// from the chain, so ref_count drops by the
// number of nodes freed and rises by one for the new string record.
func (e *Engine) putOverList(pos chainPos, key, value []byte) error {
	freed := int64(0)
	addr := pos.match
	for {
		freed++
		next := addr.ListNext
		if next == 0 {
			break
		}
		var err error
		addr, err = e.ReadAddress(next)
		if err != nil {
			return err
		}
	}

	if err := e.rehome(pos, key, value); err != nil {
		return err
	}

	e.refCount += 1 - freed
	if e.refCount <= 0 {
		panic("gokv: ref_count decremented below zero: logic error")
	}
	return e.writeHeader()
}

// rehome - Writes a fresh string record for key/value at EOF and reroutes
// whichever pointer owned the old record (the slot itself, if it was the
// chain head, or the previous record's chain_next) to the new offset. The
// live-record count is unchanged: one record is replacing another.
func (e *Engine) rehome(pos chainPos, key, value []byte) error {
	addr := record.Address{
		Type:        conf.RecordTypeString,
		ChainNext:   pos.match.ChainNext,
		KeyLen:      int64(len(key)),
		ValueLen:    int64(len(value)),
		MaxKeyLen:   int64(len(key)),
		MaxValueLen: conf.Band(int64(len(value))),
	}

	offset, err := e.AppendRecord(addr, key, value)
	if err != nil {
		return err
	}

	if pos.isHead {
		return e.WriteSlot(pos.slotOffset, offset)
	}
	return e.UpdateAddress(pos.prevOffset, FieldUpdates{ChainNext: codec.SetTo(offset)})
}

// Get - Returns the value stored for key. errs.WrongKind is returned if
// key holds a list.
func (e *Engine) Get(key []byte) ([]byte, error) {
	pos, err := e.locateChain(key)
	if err != nil {
		return nil, err
	}
	if !pos.found {
		return nil, errs.KeyNotFound{}
	}
	if pos.match.IsList() {
		return nil, errs.WrongKind{}
	}
	return e.ReadValue(pos.matchOffset, pos.match)
}

// Remove - Deletes key, returning errs.KeyNotFound if absent and
// errs.WrongKind if key holds a list.
func (e *Engine) Remove(key []byte) error {
	pos, err := e.locateChain(key)
	if err != nil {
		return err
	}
	if !pos.found {
		return errs.KeyNotFound{}
	}
	if pos.match.IsList() {
		return errs.WrongKind{}
	}

	if err := e.unlink(pos); err != nil {
		return err
	}
	return e.DecRefCount()
}

// FetchRemove - Atomically reads and removes key's value.
func (e *Engine) FetchRemove(key []byte) ([]byte, error) {
	pos, err := e.locateChain(key)
	if err != nil {
		return nil, err
	}
	if !pos.found {
		return nil, errs.KeyNotFound{}
	}
	if pos.match.IsList() {
		return nil, errs.WrongKind{}
	}

	value, err := e.ReadValue(pos.matchOffset, pos.match)
	if err != nil {
		return nil, err
	}
	if err := e.unlink(pos); err != nil {
		return nil, err
	}
	if err := e.DecRefCount(); err != nil {
		return nil, err
	}
	return value, nil
}

// unlink - Removes the record at pos.matchOffset from its collision chain
// by rerouting whichever pointer owned it. Does not touch ref_count.
func (e *Engine) unlink(pos chainPos) error {
	if pos.isHead {
		return e.WriteSlot(pos.slotOffset, pos.match.ChainNext)
	}
	return e.UpdateAddress(pos.prevOffset, FieldUpdates{ChainNext: codec.SetTo(pos.match.ChainNext)})
}
