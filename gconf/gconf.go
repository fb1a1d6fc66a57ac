package gconf

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/orm"
)

// ReadStore is a subset of lockbox.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of lockbox.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a validated protobuf message.
type Configuration = orm.Model

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Key returns the store key of the configuration of pkg.
func Key(pkg string) []byte {
	return key(pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src Configuration) error {
	raw, err := orm.Marshal(src)
	if err != nil {
		return errors.Wrapf(err, "key %q", key(pkg))
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of given package. ErrNotFound is returned
// if the configuration was never created.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(key(pkg))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key(pkg))
	}
	dst.Reset()
	if err := orm.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(err, "key %q", key(pkg))
	}
	return nil
}

// Create saves the configuration only if it does not exist yet. The
// configuration can be created only once, ErrAlreadyInitialized is
// returned on any later call.
func Create(db Store, pkg string, src Configuration) error {
	raw, err := db.Get(key(pkg))
	if err != nil {
		return err
	}
	if raw != nil {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "%s configuration", pkg)
	}
	return Save(db, pkg, src)
}

// InitConfig will take opts["conf"][pkg], parse it into the given Configuration object
// validate it, and store under the proper key in the database.
// Missing configuration is not an error, it can be created later.
func InitConfig(db Store, opts lockbox.Options, pkg string, conf Configuration) error {
	var confOptions lockbox.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if confOptions[pkg] == nil {
		return nil
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "read configuration for %s: %s", pkg, err)
	}
	if err := Create(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
