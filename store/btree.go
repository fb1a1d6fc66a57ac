package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// freeListSize is the number of nodes kept for reuse by all cache layers
// sharing one free list.
const freeListSize = btree.DefaultFreeListSize

// MemStore returns a cacheable store that lives only in memory. Writes to
// the returned store are final, there is nothing below it.
func MemStore() lockbox.CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, discardBatch{}, nil)
}

type discardBatch struct{}

func (discardBatch) Set(key, value []byte) error { return nil }
func (discardBatch) Delete(key []byte) error     { return nil }
func (discardBatch) Write() error                { return nil }

// BTreeCacheWrap keeps pending changes in a btree in front of a read
// only parent. Every change is also recorded in batch, and Write flushes
// the batch to wherever it leads.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  lockbox.ReadOnlyKVStore
	batch   lockbox.Batch
}

var _ lockbox.KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over parent that writes through
// batch. free may be shared between layers and is created when nil.
func NewBTreeCacheWrap(parent lockbox.ReadOnlyKVStore, batch lockbox.Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(freeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(2, free),
		free:    free,
		parent:  parent,
		batch:   batch,
	}
}

// CacheWrap stacks another layer on top of this cache.
func (b BTreeCacheWrap) CacheWrap() lockbox.KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch applying its operations to this cache.
func (b BTreeCacheWrap) NewBatch() lockbox.Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending changes and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending changes. The batch is not written.
func (b BTreeCacheWrap) Discard() {
	for b.pending.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.pending.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// lookup returns the pending entry for key, if there is one.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.pending.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.parent.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.parent.Has(key)
}

// Iterator walks [start, end) in ascending order, pending changes
// taking precedence over the parent.
func (b BTreeCacheWrap) Iterator(start, end []byte) (lockbox.Iterator, error) {
	it, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(it, pendingAscending(b.pending, start, end), false), nil
}

// ReverseIterator walks [start, end) in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (lockbox.Iterator, error) {
	it, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(it, pendingDescending(b.pending, start, end), true), nil
}

// entry is a pending write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
