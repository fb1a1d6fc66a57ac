package utils

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The
// cache is written only if the call succeeds, so a failing message
// leaves no partial writes behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ lockbox.Decorator = Savepoint{}

// NewSavepoint returns a Savepoint that is not active yet. Use OnCheck
// and OnDeliver to select the calls it wraps.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy that also wraps Check calls.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a copy that also wraps Deliver calls.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check implements lockbox.Decorator.
func (s Savepoint) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *lockbox.CheckResult
	err := savepoint(store, func(db lockbox.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver implements lockbox.Decorator.
func (s Savepoint) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *lockbox.DeliverResult
	err := savepoint(store, func(db lockbox.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// savepoint calls fn with a cache of store and writes the cache if fn
// succeeds. Stores that cannot be cached are passed through.
func savepoint(store lockbox.KVStore, fn func(lockbox.KVStore) error) error {
	cacheable, ok := store.(lockbox.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	return nil
}
