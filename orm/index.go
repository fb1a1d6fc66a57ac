package orm

import (
	"bytes"
	"encoding/binary"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// Indexer calculates the secondary index value for a model. Returning
// nil excludes the model from the index.
type Indexer func(Model) ([]byte, error)

// index is a non unique secondary index. Each (value, key) pair is
// stored as its own entry, so updates never rewrite lists.
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
}

func newIndex(bucket, name string, indexer Indexer) index {
	return index{
		name:    name,
		prefix:  []byte("_i." + bucket + "_" + name + ":"),
		indexer: indexer,
	}
}

// valuePrefix returns the prefix shared by all entries with given
// value. The length is part of the prefix, so a value is never the
// prefix of another one.
func (i index) valuePrefix(value []byte) []byte {
	var n [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(n[:], uint64(len(value)))
	res := make([]byte, 0, len(i.prefix)+l+len(value))
	res = append(res, i.prefix...)
	res = append(res, n[:l]...)
	return append(res, value...)
}

func (i index) entryKey(value, key []byte) []byte {
	return append(i.valuePrefix(value), key...)
}

func (i index) value(m Model) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return i.indexer(m)
}

// update moves the index entry of key from the prev to the next model
// value. Either may be nil.
func (i index) update(db lockbox.KVStore, key []byte, prev, next Model) error {
	before, err := i.value(prev)
	if err != nil {
		return err
	}
	after, err := i.value(next)
	if err != nil {
		return err
	}
	if before != nil && after != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := db.Delete(i.entryKey(before, key)); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	if after != nil {
		if err := db.Set(i.entryKey(after, key), key); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}

// keys returns primary keys of all models indexed by value, in the
// order of the keys.
func (i index) keys(db lockbox.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	start := i.valuePrefix(value)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Release()

	var keys [][]byte
	for {
		_, key, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return keys, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		keys = append(keys, key)
	}
}

// prefixEnd returns the smallest key greater than all keys with the
// given prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
