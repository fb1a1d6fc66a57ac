package store

import (
	"sync"

	"github.com/lockbox-labs/lockbox"
)

// SyncStore makes a store safe for concurrent use. Reads take a shared
// lock, a batch is applied under a single exclusive lock so readers
// never observe a half written batch.
//
// Iterators are fully read while holding the lock, so they are only
// suited for small ranges.
type SyncStore struct {
	mu   *sync.RWMutex
	base lockbox.KVStore
}

var _ lockbox.CacheableKVStore = SyncStore{}

// NewSyncStore wraps base. base must not be used directly afterwards.
func NewSyncStore(base lockbox.KVStore) SyncStore {
	return SyncStore{mu: &sync.RWMutex{}, base: base}
}

// Get implements KVStore.
func (s SyncStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.Get(key)
}

// Has implements KVStore.
func (s SyncStore) Has(key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.Has(key)
}

// Set implements KVStore.
func (s SyncStore) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Set(key, value)
}

// Delete implements KVStore.
func (s SyncStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Delete(key)
}

// Iterator implements KVStore.
func (s SyncStore) Iterator(start, end []byte) (lockbox.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.base.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	models, err := ReadAll(it)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

// ReverseIterator implements KVStore.
func (s SyncStore) ReverseIterator(start, end []byte) (lockbox.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, err := s.base.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	models, err := ReadAll(it)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

// NewBatch returns a batch that is written under one exclusive lock.
func (s SyncStore) NewBatch() lockbox.Batch {
	return &syncBatch{store: s}
}

// CacheWrap returns a savepoint whose Write is atomic for concurrent
// readers of this store.
func (s SyncStore) CacheWrap() lockbox.KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Exclusive runs fn while holding the exclusive lock, with direct
// access to the wrapped store.
func (s SyncStore) Exclusive(fn func(lockbox.KVStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.base)
}

type syncBatch struct {
	store SyncStore
	ops   []Op
}

func (b *syncBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *syncBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *syncBatch) Write() error {
	ops := b.ops
	b.ops = nil
	return b.store.Exclusive(func(kv lockbox.KVStore) error {
		for _, op := range ops {
			if err := op.Apply(kv); err != nil {
				return err
			}
		}
		return nil
	})
}
