package utils

import (
	"time"

	"github.com/lockbox-labs/lockbox"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ lockbox.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (r Logging) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx lockbox.Context, tx lockbox.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := lockbox.GetLogger(ctx).With(
		"path", lockbox.GetPath(tx),
		"duration", delta/time.Microsecond)
	if seq, ok := lockbox.GetSequence(ctx); ok {
		logger = logger.With("seq", seq)
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
