package lockboxtest

import (
	"sync/atomic"

	"github.com/lockbox-labs/lockbox"
)

// Handler returns the configured results and counts the calls. It is
// safe for concurrent use.
type Handler struct {
	checkCall   int64
	CheckResult lockbox.CheckResult
	CheckErr    error

	deliverCall   int64
	DeliverResult lockbox.DeliverResult
	DeliverErr    error
}

var _ lockbox.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	atomic.AddInt64(&h.checkCall, 1)
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	atomic.AddInt64(&h.deliverCall, 1)
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return int(atomic.LoadInt64(&h.checkCall))
}

func (h *Handler) DeliverCallCount() int {
	return int(atomic.LoadInt64(&h.deliverCall))
}

func (h *Handler) CallCount() int {
	return h.CheckCallCount() + h.DeliverCallCount()
}
