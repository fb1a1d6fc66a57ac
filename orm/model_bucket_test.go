package orm

import (
	"testing"

	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
	"github.com/lockbox-labs/lockbox/store"
)

func TestModelBucketCRUD(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("vaults", &vault{})

	var v vault
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &v))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("a")))

	assert.Nil(t, b.Put(db, []byte("a"), &vault{Owner: []byte("alice"), Amount: 5}))
	assert.Nil(t, b.One(db, []byte("a"), &v))
	assert.Equal(t, vault{Owner: []byte("alice"), Amount: 5}, v)
	assert.Nil(t, b.Has(db, []byte("a")))

	// Put overwrites.
	assert.Nil(t, b.Put(db, []byte("a"), &vault{Owner: []byte("alice"), Amount: 7}))
	assert.Nil(t, b.One(db, []byte("a"), &v))
	assert.Equal(t, uint64(7), v.Amount)

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &v))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("a")))
}

func TestModelBucketCreate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("vaults", &vault{})

	assert.Nil(t, b.Create(db, []byte("a"), &vault{Owner: []byte("alice"), Amount: 1}))
	err := b.Create(db, []byte("a"), &vault{Owner: []byte("bob"), Amount: 2})
	assert.IsErr(t, errors.ErrDuplicate, err)

	var v vault
	assert.Nil(t, b.One(db, []byte("a"), &v))
	assert.Equal(t, []byte("alice"), v.Owner)
}

func TestModelBucketValidation(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("vaults", &vault{})

	assert.IsErr(t, errors.ErrEmpty, b.Put(db, []byte("a"), &vault{}))
	assert.IsErr(t, errors.ErrEmpty, b.Put(db, nil, &vault{Owner: []byte("x")}))
	assert.IsErr(t, errors.ErrType, b.Put(db, []byte("a"), &other{Name: "x"}))
	assert.IsErr(t, errors.ErrType, b.One(db, []byte("a"), &other{}))

	assert.Panics(t, func() { NewModelBucket("X", &vault{}) })
}

func TestModelBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("vaults", &vault{}, WithIndex("owner", ownerIndexer))

	assert.Nil(t, b.Put(db, []byte("k1"), &vault{Owner: []byte("alice"), Amount: 1}))
	assert.Nil(t, b.Put(db, []byte("k2"), &vault{Owner: []byte("alice"), Amount: 2}))
	assert.Nil(t, b.Put(db, []byte("k3"), &vault{Owner: []byte("alicea"), Amount: 3}))

	var found []*vault
	keys, err := b.ByIndex(db, "owner", []byte("alice"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("k1"), []byte("k2")}, keys)
	assert.Equal(t, 2, len(found))
	assert.Equal(t, uint64(1), found[0].Amount)

	// Moving an entity to another owner updates the index.
	assert.Nil(t, b.Put(db, []byte("k1"), &vault{Owner: []byte("bob"), Amount: 1}))
	found = nil
	keys, err = b.ByIndex(db, "owner", []byte("alice"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("k2")}, keys)

	found = nil
	keys, err = b.ByIndex(db, "owner", []byte("bob"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("k1")}, keys)

	// Deleting removes the index entry.
	assert.Nil(t, b.Delete(db, []byte("k1")))
	found = nil
	keys, err = b.ByIndex(db, "owner", []byte("bob"), &found)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	_, err = b.ByIndex(db, "unknown", []byte("bob"), &found)
	assert.IsErr(t, errors.ErrHuman, err)

	var wrong []*other
	_, err = b.ByIndex(db, "owner", []byte("bob"), &wrong)
	assert.IsErr(t, errors.ErrType, err)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("ab"), prefixEnd([]byte("aa")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
