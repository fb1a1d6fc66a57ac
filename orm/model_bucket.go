package orm

import (
	"reflect"
	"regexp"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// ModelBucket is implemented by buckets that operates on Models rather
// than raw bytes.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db lockbox.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists, ErrNotFound
	// otherwise.
	Has(db lockbox.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database, replacing any previous
	// value. Indexes are updated.
	Put(db lockbox.KVStore, key []byte, m Model) error

	// Create saves given model only if no entity with given key
	// exists. It returns ErrDuplicate otherwise.
	Create(db lockbox.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db lockbox.KVStore, key []byte) error

	// ByIndex loads all entities whose index value matches and returns
	// their primary keys. dest must be a pointer to a slice of models.
	ByIndex(db lockbox.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error)
}

// ModelBucketOption configures a bucket.
type ModelBucketOption func(*modelBucket)

// WithIndex registers an index. Indexer returns the value the model is
// indexed by, or nil to skip indexing.
func WithIndex(name string, indexer Indexer) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("index " + name + " already registered")
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer)
	}
}

// NewModelBucket returns a ModelBucket storing models of the same type
// as example.
func NewModelBucket(name string, example Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   reflect.TypeOf(example),
		indexes: make(map[string]index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]index
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(mb.prefix)+len(key)), mb.prefix...), key...)
}

func (mb *modelBucket) One(db lockbox.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be stored in %s bucket", dest, mb.name)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	dest.Reset()
	return Unmarshal(raw, dest)
}

func (mb *modelBucket) Has(db lockbox.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.name)
	}
	return nil
}

func (mb *modelBucket) Put(db lockbox.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be stored in %s bucket", m, mb.name)
	}
	raw, err := Marshal(m)
	if err != nil {
		return err
	}

	var prev Model
	if len(mb.indexes) > 0 {
		prev, err = mb.load(db, key)
		if err != nil {
			return err
		}
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}

	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) Create(db lockbox.KVStore, key []byte, m Model) error {
	switch err := mb.Has(db, key); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "%s already exists", mb.name)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Delete(db lockbox.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.name)
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) ByIndex(db lockbox.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", indexName)
	}
	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice || slice.Elem().Type().Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "%T is not a pointer to a slice of %s", dest, mb.model)
	}

	keys, err := idx.keys(db, value)
	if err != nil {
		return nil, err
	}
	out := slice.Elem()
	for _, key := range keys {
		m, err := mb.load(db, key)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "index %s points to a missing entity", indexName)
		}
		out = reflect.Append(out, reflect.ValueOf(m))
	}
	slice.Elem().Set(out)
	return keys, nil
}

// load returns the stored model or nil if it does not exist.
func (mb *modelBucket) load(db lockbox.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	m := reflect.New(mb.model.Elem()).Interface().(Model)
	if err := Unmarshal(raw, m); err != nil {
		return nil, err
	}
	return m, nil
}
