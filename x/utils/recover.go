package utils

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// Recovery turns a panic anywhere below it into an ErrPanic error and
// logs it with the message path, so a faulty handler fails one
// transaction instead of the process.
type Recovery struct{}

var _ lockbox.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (_ *lockbox.CheckResult, err error) {
	defer recovered(ctx, tx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (_ *lockbox.DeliverResult, err error) {
	defer recovered(ctx, tx, &err)
	return next.Deliver(ctx, db, tx)
}

// recovered must be deferred directly for recover to see the panic.
func recovered(ctx lockbox.Context, tx lockbox.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	path := "(missing)"
	if tx != nil {
		path = lockbox.GetPath(tx)
	}
	lockbox.GetLogger(ctx).Error("handler panic", "path", path, "panic", r)
}
