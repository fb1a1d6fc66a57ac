package store

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// Model is a key with its value as returned by iterators.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns the model of key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// SliceIterator iterates over models already loaded into memory.
type SliceIterator struct {
	rest []Model
}

var _ lockbox.Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{rest: data}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if len(s.rest) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.rest[0]
	s.rest = s.rest[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.rest = nil
}

// ReadAll drains the iterator into a slice and releases it.
func ReadAll(it lockbox.Iterator) ([]Model, error) {
	defer it.Release()
	var res []Model
	for {
		k, v, err := it.Next()
		switch {
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		case err != nil:
			return nil, err
		}
		res = append(res, Pair(k, v))
	}
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer
// of MemStore.
type EmptyKVStore struct{}

var _ lockbox.KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error) { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error { return nil }
func (e EmptyKVStore) NewBatch() lockbox.Batch { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(_, _ []byte) (lockbox.Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (lockbox.Iterator, error) {
	return NewSliceIterator(nil), nil
}

// Op is a recorded set or delete.
type Op struct {
	key   []byte
	value []byte
	del   bool
}

// SetOp records setting key to value.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp records deleting key.
func DelOp(key []byte) Op {
	return Op{key: key, del: true}
}

// Apply performs the operation on out.
func (o Op) Apply(out lockbox.SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

func (o Op) IsSetOp() bool { return !o.del }
func (o Op) Key() []byte { return o.key }
func (o Op) Value() []byte { return o.value }

// NonAtomicBatch records operations and replays them on out when
// written. A failure half way leaves out partially written, so it is only
// used on top of in-memory layers.
type NonAtomicBatch struct {
	out lockbox.SetDeleter
	ops []Op
}

var _ lockbox.Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out lockbox.SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays all recorded operations and clears the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}
