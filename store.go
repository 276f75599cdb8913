// Package gokv is an embeddable key-value store backed by a single
// regular file: a custom binary hash table supporting string
// put/get/remove and list append/prepend/pop-tail/pop-head, all with
// O(1) expected complexity under a single-writer advisory lock.
//
// Backend is the contract a multi-backend dispatcher (memory, disk,
// remote) would select over; Store is this package's one implementation
// of it, split between an interface a caller programs against and a
// single concrete implementation.
package gokv

import (
	"fmt"
	"os"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/arvidsson/gokv/internal/conf"
	"github.com/arvidsson/gokv/internal/engine"
	"github.com/arvidsson/gokv/internal/errs"
	"github.com/arvidsson/gokv/internal/filelock"
)

// Backend - The operations any file-, memory-, or remote-backed key-value
// store must support. A dispatcher out of this package's scope would hold
// one of these per configured instance.
type Backend interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Remove(key []byte) error
	FetchRemove(key []byte) ([]byte, error)

	Append(key, value []byte) error
	Prepend(key, value []byte) error
	Pop(key []byte) ([]byte, error)
	PopFirst(key []byte) ([]byte, error)

	Close() error
}

// Store - A single mutable handle over one regular file. All
// exported methods take mu for the full duration of the call, so a Store
// is safe for concurrent use by multiple goroutines within one process;
// it is not safe for concurrent use across processes, which is what lock
// exists to reject.
type Store struct {
	mu   sync.Mutex
	eng  *engine.Engine
	lock *filelock.Lock
	file *os.File
	sync bool
}

var _ Backend = (*Store)(nil)

// Open - Opens (or creates) the file at path as a Store. addressSpaceSize
// is the number of bytes reserved for the index region when a new file is
// created or WithTruncate is given; it must be a positive multiple of 4.
func Open(path string, addressSpaceSize int64, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errs.MissingPath{}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	lock, err := filelock.Acquire(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("error while opening file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		_ = lock.Close()
		return nil, fmt.Errorf("error while stating file %s: %w", path, err)
	}

	var eng *engine.Engine
	if cfg.truncate || info.Size() == 0 {
		eng, err = engine.Init(file, addressSpaceSize, cfg.alg)
	} else {
		eng, err = engine.Open(file, cfg.alg)
	}
	if err != nil {
		_ = file.Close()
		_ = lock.Close()
		return nil, err
	}

	return &Store{eng: eng, lock: lock, file: file, sync: cfg.syncEveryOp}, nil
}

// Close - Releases the file lock and closes the file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.file.Close()
	if lockErr := s.lock.Close(); lockErr != nil && err == nil {
		err = lockErr
	}
	return err
}

func (s *Store) checkKey(key []byte) error {
	if int64(len(key)) > conf.MaxKeyLen {
		return errs.KeyTooLong{}
	}
	return nil
}

func (s *Store) sequence(err error) error {
	if err != nil {
		return err
	}
	if !s.sync {
		return nil
	}
	return s.eng.Sync()
}

// Put - Sets key to value.
func (s *Store) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return err
	}
	return s.sequence(s.eng.Put(key, value))
}

// Get - Returns the value stored for key.
func (s *Store) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	return s.eng.Get(key)
}

// Remove - Deletes key.
func (s *Store) Remove(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return err
	}
	return s.sequence(s.eng.Remove(key))
}

// FetchRemove - Atomically reads and removes key's value.
func (s *Store) FetchRemove(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	value, err := s.eng.FetchRemove(key)
	if err != nil {
		return nil, err
	}
	return value, s.sequence(nil)
}

// Append - Pushes value onto the tail of the list at key.
func (s *Store) Append(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return err
	}
	return s.sequence(s.eng.Append(key, value))
}

// Prepend - Pushes value onto the head of the list at key.
func (s *Store) Prepend(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return err
	}
	return s.sequence(s.eng.Prepend(key, value))
}

// Pop - Removes and returns the tail element of the list at key (LIFO
// with Append).
func (s *Store) Pop(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	value, err := s.eng.PopTail(key)
	if err != nil {
		return nil, err
	}
	return value, s.sequence(nil)
}

// PopFirst - Removes and returns the head element of the list at key
// (FIFO with Append, LIFO with Prepend).
func (s *Store) PopFirst(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	value, err := s.eng.PopHead(key)
	if err != nil {
		return nil, err
	}
	return value, s.sequence(nil)
}

// Info - Static parameters of the store as configured, following the
// shape of FileHashMap's HashMapInfo.
type Info struct {
	SlotCount int64
	IndexSize int64
}

// String - A human-readable rendering of Info, using go-humanize for the
// index size the way HashMapInfo.FileSize is rendered to callers.
func (i Info) String() string {
	return fmt.Sprintf("%d slots, %s index", i.SlotCount, humanize.IBytes(uint64(i.IndexSize)))
}

// Info - Returns the store's static configuration.
func (s *Store) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Info{
		SlotCount: s.eng.SlotCount(),
		IndexSize: s.eng.IndexSize(),
	}
}

// Stat - Live usage statistics, following the shape of FileHashMap's
// HashMapStat.
type Stat struct {
	RefCount int64
	FileSize int64
}

// String - A human-readable rendering of Stat.
func (s Stat) String() string {
	return fmt.Sprintf("%d live records, %s on disk", s.RefCount, humanize.IBytes(uint64(s.FileSize)))
}

// Stat - Returns live usage statistics for the store.
func (s *Store) Stat() (Stat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size, err := s.eng.Size()
	if err != nil {
		return Stat{}, err
	}
	return Stat{RefCount: s.eng.RefCount(), FileSize: size}, nil
}
