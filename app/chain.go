package app

import (
	"reflect"

	"github.com/lockbox-labs/lockbox"
)

// Decorators is an ordered stack of decorators waiting for the handler
// at its bottom.
type Decorators struct {
	stack []lockbox.Decorator
}

// ChainDecorators returns a stack of the given decorators. The first one
// sees a message first. Nil entries are dropped, so optional decorators
// can be passed unconditionally.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
func ChainDecorators(ds ...lockbox.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new stack with ds added below the current decorators.
func (d Decorators) Chain(ds ...lockbox.Decorator) Decorators {
	stack := make([]lockbox.Decorator, 0, len(d.stack)+len(ds))
	stack = append(stack, d.stack...)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			stack = append(stack, dec)
		}
	}
	return Decorators{stack: stack}
}

func isNilDecorator(d lockbox.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h and returns the handler running
// every decorator in order before h.
func (d Decorators) WithHandler(h lockbox.Handler) lockbox.Handler {
	for i := len(d.stack) - 1; i >= 0; i-- {
		h = layer{dec: d.stack[i], next: h}
	}
	return h
}

// layer runs one decorator in front of the rest of the stack.
type layer struct {
	dec  lockbox.Decorator
	next lockbox.Handler
}

var _ lockbox.Handler = layer{}

func (l layer) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
