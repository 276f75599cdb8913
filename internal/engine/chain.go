package engine

import "github.com/arvidsson/gokv/internal/record"

// chainPos - The result of walking one slot's collision chain looking for
// a key: the slot itself, whether the chain is non-empty, whether the key
// was found, and enough of the surrounding chain (previous record's
// offset, or 0 if the match is the chain head; the last record's offset,
// for appending a new link) to splice a record in or out without a second
// walk.
type chainPos struct {
	slotOffset  int64
	chainHead   int64
	found       bool
	matchOffset int64
	match       record.Address
	isHead      bool
	prevOffset  int64
	tailOffset  int64
	tailAddr    record.Address
}

// ChainIterator - A forward-only, non-restartable walk over one slot's
// collision chain, following chain_next links from the slot pointer.
// Each Next call issues one ReadAddress; there is no way to rewind. Both
// the string and list engines locate a key through locateChain, which
// drives one of these to exhaustion.
type ChainIterator struct {
	e      *Engine
	offset int64
	done   bool
}

// NewChainIterator - Returns an iterator over the chain rooted at the slot
// owning key, along with that slot's offset and head pointer (0 if the
// slot is empty).
func (e *Engine) NewChainIterator(key []byte) (*ChainIterator, int64, int64, error) {
	slotOffset := e.SlotOffset(key)
	head, err := e.ReadSlot(slotOffset)
	if err != nil {
		return nil, 0, 0, err
	}
	return &ChainIterator{e: e, offset: head}, slotOffset, head, nil
}

// Next - Returns the offset and address of the next record in the chain,
// or ok=false once the chain is exhausted. Must not be called again after
// a non-nil error.
func (it *ChainIterator) Next() (offset int64, addr record.Address, ok bool, err error) {
	if it.done || it.offset == 0 {
		it.done = true
		return 0, record.Address{}, false, nil
	}

	offset = it.offset
	addr, err = it.e.ReadAddress(offset)
	if err != nil {
		it.done = true
		return 0, record.Address{}, false, err
	}

	it.offset = addr.ChainNext
	return offset, addr, true, nil
}

// locateChain - Walks the collision chain owning key via a ChainIterator,
// recording the first record whose live key equals key. Always walks to
// the end of the chain even after a match, since callers need tailOffset
// for appends. Keys of records after the first match are not read or
// compared, so a duplicate key deeper in the chain is not detected.
func (e *Engine) locateChain(key []byte) (chainPos, error) {
	it, slotOffset, head, err := e.NewChainIterator(key)
	if err != nil {
		return chainPos{}, err
	}

	pos := chainPos{slotOffset: slotOffset, chainHead: head}
	if head == 0 {
		return pos, nil
	}

	prev := int64(0)
	for {
		offset, addr, ok, err := it.Next()
		if err != nil {
			return pos, err
		}
		if !ok {
			break
		}

		if !pos.found {
			k, err := e.ReadKey(offset, addr)
			if err != nil {
				return pos, err
			}
			if string(k) == string(key) {
				pos.found = true
				pos.matchOffset = offset
				pos.match = addr
				pos.isHead = offset == head
				pos.prevOffset = prev
			}
		}

		pos.tailOffset = offset
		pos.tailAddr = addr
		prev = offset
	}

	return pos, nil
}
