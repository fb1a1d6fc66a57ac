package utils

import (
	"github.com/lockbox-labs/lockbox"
)

// TestHelpers builds stub handlers and decorators for decorator tests in
// this and other packages.
type TestHelpers struct{}

// CountingDecorator counts one on the way in and one on the way out, so
// a panic below it leaves an odd count.
type CountingDecorator interface {
	GetCount() int
	lockbox.Decorator
}

// CountingHandler counts calls.
type CountingHandler interface {
	GetCount() int
	lockbox.Handler
}

func (TestHelpers) CountingDecorator() CountingDecorator {
	return &countingDecorator{}
}

func (TestHelpers) CountingHandler() CountingHandler {
	return &stubHandler{}
}

// ErrorHandler fails every call with err.
func (TestHelpers) ErrorHandler(err error) lockbox.Handler {
	return &stubHandler{err: err}
}

// PanicHandler panics with err on every call.
func (TestHelpers) PanicHandler(err error) lockbox.Handler {
	return &stubHandler{err: err, panics: true}
}

// WriteHandler sets key to value and then returns err.
func (TestHelpers) WriteHandler(key, value []byte, err error) lockbox.Handler {
	return &stubHandler{key: key, value: value, err: err}
}

// WriteDecorator sets key to value before calling the next handler, or
// after it when after is true and the next handler succeeded.
func (TestHelpers) WriteDecorator(key, value []byte, after bool) lockbox.Decorator {
	return writeDecorator{key: key, value: value, after: after}
}

type countingDecorator struct {
	called int
}

func (c *countingDecorator) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	c.called++
	res, err := next.Check(ctx, db, tx)
	c.called++
	return res, err
}

func (c *countingDecorator) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	c.called++
	res, err := next.Deliver(ctx, db, tx)
	c.called++
	return res, err
}

func (c *countingDecorator) GetCount() int {
	return c.called
}

// stubHandler counts calls, optionally writes one pair and then fails or
// panics with err when it is set.
type stubHandler struct {
	called int
	key    []byte
	value  []byte
	err    error
	panics bool
}

var _ CountingHandler = (*stubHandler)(nil)

func (h *stubHandler) run(db lockbox.KVStore) error {
	h.called++
	if h.panics {
		panic(h.err)
	}
	if h.key != nil {
		if err := db.Set(h.key, h.value); err != nil {
			return err
		}
	}
	return h.err
}

func (h *stubHandler) Check(_ lockbox.Context, db lockbox.KVStore, _ lockbox.Tx) (*lockbox.CheckResult, error) {
	if err := h.run(db); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

func (h *stubHandler) Deliver(_ lockbox.Context, db lockbox.KVStore, _ lockbox.Tx) (*lockbox.DeliverResult, error) {
	if err := h.run(db); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}

func (h *stubHandler) GetCount() int {
	return h.called
}

type writeDecorator struct {
	key   []byte
	value []byte
	after bool
}

var _ lockbox.Decorator = writeDecorator{}

// around writes the pair on the configured side of next.
func (d writeDecorator) around(db lockbox.KVStore, next func() error) error {
	if !d.after {
		if err := db.Set(d.key, d.value); err != nil {
			return err
		}
	}
	if err := next(); err != nil {
		return err
	}
	if d.after {
		return db.Set(d.key, d.value)
	}
	return nil
}

func (d writeDecorator) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	var res *lockbox.CheckResult
	err := d.around(db, func() (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

func (d writeDecorator) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	var res *lockbox.DeliverResult
	err := d.around(db, func() (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}
