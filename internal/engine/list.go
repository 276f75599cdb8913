package engine

import (
	"github.com/arvidsson/gokv/internal/codec"
	"github.com/arvidsson/gokv/internal/conf"
	"github.com/arvidsson/gokv/internal/errs"
	"github.com/arvidsson/gokv/internal/record"
)

// A list is a doubly-linked chain of records that all share one key: every
// node stores the key (unbanded, same as a string record) so that any
// node can become the head without moving bytes, but only the head's
// list_end and chain_next are meaningful. The head also doubles as the
// first element: a freshly created list of one item is a single record
// whose list_end points at itself.
//
// An "empty list" is a head record with list_end=0 and no successors. It
// is left behind by PopTail when the popped singleton head still carries
// a live chain_next (PopHead unlinks such a head instead); it is
// replaced, not reused, the next time a value is pushed onto that key.

// Append - Pushes value onto the tail of the list at key. If key holds a
// string, the string is converted to an empty list head first, then the
// value is pushed.
func (e *Engine) Append(key, value []byte) error {
	pos, err := e.locateChain(key)
	if err != nil {
		return err
	}

	if !pos.found {
		return e.newList(pos, key, value)
	}

	if pos.match.IsString() {
		pos, err = e.stringToEmptyList(pos, key)
		if err != nil {
			return err
		}
	}

	if pos.match.ListEnd == 0 {
		return e.reinitList(pos, key, value)
	}

	tailOffset := pos.match.ListEnd

	node := record.Address{
		Type:        conf.RecordTypeList,
		ListPrev:    tailOffset,
		KeyLen:      int64(len(key)),
		MaxKeyLen:   int64(len(key)),
		ValueLen:    int64(len(value)),
		MaxValueLen: int64(len(value)),
	}
	newOffset, err := e.AppendRecord(node, key, value)
	if err != nil {
		return err
	}

	if err := e.UpdateAddress(tailOffset, FieldUpdates{ListNext: codec.SetTo(newOffset)}); err != nil {
		return err
	}
	if err := e.UpdateAddress(pos.matchOffset, FieldUpdates{ListEnd: codec.SetTo(newOffset)}); err != nil {
		return err
	}
	return e.IncRefCount()
}

// Prepend - Pushes value onto the head of the list at key, symmetric to
// Append. The new node becomes the head and takes over the
// key and the chain linkage; the old head becomes an interior node.
func (e *Engine) Prepend(key, value []byte) error {
	pos, err := e.locateChain(key)
	if err != nil {
		return err
	}

	if !pos.found {
		return e.newList(pos, key, value)
	}

	if pos.match.IsString() {
		pos, err = e.stringToEmptyList(pos, key)
		if err != nil {
			return err
		}
	}

	if pos.match.ListEnd == 0 {
		return e.reinitList(pos, key, value)
	}

	oldHeadOffset := pos.matchOffset
	oldHead := pos.match

	listEnd := oldHead.ListEnd
	if listEnd == 0 {
		listEnd = oldHeadOffset
	}

	newHead := record.Address{
		Type:        conf.RecordTypeList,
		ChainNext:   oldHead.ChainNext,
		ListNext:    oldHeadOffset,
		KeyLen:      int64(len(key)),
		MaxKeyLen:   int64(len(key)),
		ValueLen:    int64(len(value)),
		MaxValueLen: int64(len(value)),
		ListEnd:     listEnd,
	}
	newOffset, err := e.AppendRecord(newHead, key, value)
	if err != nil {
		return err
	}

	if err := e.UpdateAddress(oldHeadOffset, FieldUpdates{
		ChainNext: codec.Clear(),
		ListPrev:  codec.SetTo(newOffset),
		ListEnd:   codec.Clear(),
	}); err != nil {
		return err
	}

	if pos.isHead {
		if err := e.WriteSlot(pos.slotOffset, newOffset); err != nil {
			return err
		}
	} else {
		if err := e.UpdateAddress(pos.prevOffset, FieldUpdates{ChainNext: codec.SetTo(newOffset)}); err != nil {
			return err
		}
	}

	return e.IncRefCount()
}

// PopTail - Removes and returns the tail element of the list at key
// (LIFO with Append).
func (e *Engine) PopTail(key []byte) ([]byte, error) {
	pos, err := e.locateChain(key)
	if err != nil {
		return nil, err
	}
	if !pos.found || !pos.match.IsList() || pos.match.ListEnd == 0 {
		return nil, errs.KeyNotFound{}
	}

	head := pos.match
	tailOffset := head.ListEnd
	tail, err := e.ReadAddress(tailOffset)
	if err != nil {
		return nil, err
	}
	value, err := e.ReadValue(tailOffset, tail)
	if err != nil {
		return nil, err
	}

	if tail.ListPrev == 0 {
		// Tail is the head itself: the list becomes empty.
		if head.ChainNext == 0 {
			if err := e.unlink(pos); err != nil {
				return nil, err
			}
			if err := e.DecRefCount(); err != nil {
				return nil, err
			}
			if err := e.ReclaimTail(pos.matchOffset, head); err != nil {
				return nil, err
			}
			return value, nil
		}
		if err := e.UpdateAddress(pos.matchOffset, FieldUpdates{ListEnd: codec.Clear()}); err != nil {
			return nil, err
		}
		return value, nil
	}

	predOffset := tail.ListPrev
	if err := e.UpdateAddress(predOffset, FieldUpdates{ListNext: codec.Clear()}); err != nil {
		return nil, err
	}
	if err := e.UpdateAddress(pos.matchOffset, FieldUpdates{ListEnd: codec.SetTo(predOffset)}); err != nil {
		return nil, err
	}
	if err := e.DecRefCount(); err != nil {
		return nil, err
	}
	if err := e.ReclaimTail(tailOffset, tail); err != nil {
		return nil, err
	}
	return value, nil
}

// PopHead - Removes and returns the head element of the list at key
// (FIFO with Append, LIFO with Prepend).
func (e *Engine) PopHead(key []byte) ([]byte, error) {
	pos, err := e.locateChain(key)
	if err != nil {
		return nil, err
	}
	if !pos.found || !pos.match.IsList() || pos.match.ListEnd == 0 {
		return nil, errs.KeyNotFound{}
	}

	head := pos.match
	headOffset := pos.matchOffset
	value, err := e.ReadValue(headOffset, head)
	if err != nil {
		return nil, err
	}

	if head.ListNext != 0 {
		succOffset := head.ListNext

		if err := e.UpdateAddress(succOffset, FieldUpdates{
			ChainNext: codec.SetTo(head.ChainNext),
			ListPrev:  codec.Clear(),
			ListEnd:   codec.SetTo(head.ListEnd),
		}); err != nil {
			return nil, err
		}

		if pos.isHead {
			if err := e.WriteSlot(pos.slotOffset, succOffset); err != nil {
				return nil, err
			}
		} else {
			if err := e.UpdateAddress(pos.prevOffset, FieldUpdates{ChainNext: codec.SetTo(succOffset)}); err != nil {
				return nil, err
			}
		}

		if err := e.DecRefCount(); err != nil {
			return nil, err
		}
		if err := e.ReclaimTail(headOffset, head); err != nil {
			return nil, err
		}
		return value, nil
	}

	// Singleton: always fully removed here, unlike pop_tail's
	// chain-preserving tombstone.
	if pos.isHead {
		if err := e.WriteSlot(pos.slotOffset, head.ChainNext); err != nil {
			return nil, err
		}
	} else {
		if err := e.UpdateAddress(pos.prevOffset, FieldUpdates{ChainNext: codec.SetTo(head.ChainNext)}); err != nil {
			return nil, err
		}
	}
	if err := e.DecRefCount(); err != nil {
		return nil, err
	}
	if err := e.ReclaimTail(headOffset, head); err != nil {
		return nil, err
	}
	return value, nil
}

// newList - Creates a one-element list at a key with no existing record.
func (e *Engine) newList(pos chainPos, key, value []byte) error {
	addr := record.Address{
		Type:        conf.RecordTypeList,
		KeyLen:      int64(len(key)),
		MaxKeyLen:   int64(len(key)),
		ValueLen:    int64(len(value)),
		MaxValueLen: int64(len(value)),
	}

	offset, err := e.AppendRecord(addr, key, value)
	if err != nil {
		return err
	}
	addr.ListEnd = offset
	if err := e.UpdateAddress(offset, FieldUpdates{ListEnd: codec.SetTo(offset)}); err != nil {
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

// reinitList - Replaces an empty-list head (or, transitively, a string
// just converted to one) at EOF with a fresh one-element list head,
// preserving the chain_next inherited from the record it replaces. Net
// record count is unchanged.
func (e *Engine) reinitList(pos chainPos, key, value []byte) error {
	addr := record.Address{
		Type:        conf.RecordTypeList,
		ChainNext:   pos.match.ChainNext,
		KeyLen:      int64(len(key)),
		MaxKeyLen:   int64(len(key)),
		ValueLen:    int64(len(value)),
		MaxValueLen: int64(len(value)),
	}
	offset, err := e.AppendRecord(addr, key, value)
	if err != nil {
		return err
	}
	if err := e.UpdateAddress(offset, FieldUpdates{ListEnd: codec.SetTo(offset)}); err != nil {
		return err
	}

	if pos.isHead {
		return e.WriteSlot(pos.slotOffset, offset)
	}
	return e.UpdateAddress(pos.prevOffset, FieldUpdates{ChainNext: codec.SetTo(offset)})
}

// stringToEmptyList - Replaces the string record at pos with an empty list
// head written at EOF (a re-home, not an in-place field flip), reroutes
// the owning pointer to it, and returns pos updated to the new record.
// The string's bytes and slack are not reused.
func (e *Engine) stringToEmptyList(pos chainPos, key []byte) (chainPos, error) {
	addr := record.Address{
		Type:      conf.RecordTypeList,
		ChainNext: pos.match.ChainNext,
		KeyLen:    int64(len(key)),
		MaxKeyLen: int64(len(key)),
	}
	offset, err := e.AppendRecord(addr, key, nil)
	if err != nil {
		return pos, err
	}

	if pos.isHead {
		if err := e.WriteSlot(pos.slotOffset, offset); err != nil {
			return pos, err
		}
	} else {
		if err := e.UpdateAddress(pos.prevOffset, FieldUpdates{ChainNext: codec.SetTo(offset)}); err != nil {
			return pos, err
		}
	}

	pos.matchOffset = offset
	pos.match = addr
	return pos, nil
}
