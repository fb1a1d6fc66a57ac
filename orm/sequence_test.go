package orm

import (
	"testing"

	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
	"github.com/lockbox-labs/lockbox/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("locker", "id")

	latest, err := seq.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), latest)

	n, err := seq.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)

	raw, err := seq.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), raw)

	// Scoped sequences are independent of each other and of the parent.
	alice := seq.Scoped([]byte("alice"))
	bob := seq.Scoped([]byte("bob"))
	n, err = alice.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)
	n, err = alice.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), n)
	n, err = bob.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)

	latest, err = seq.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), latest)
}

func TestDecodeSequence(t *testing.T) {
	_, err := DecodeSequence([]byte{1, 2})
	assert.IsErr(t, errors.ErrModel, err)

	v, err := DecodeSequence(EncodeSequence(1 << 40))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1<<40), v)
}
