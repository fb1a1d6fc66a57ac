package lockbox

import (
	"context"
	"fmt"
	"regexp"

	"github.com/lockbox-labs/lockbox/errors"
	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the lockbox module

const (
	contextKeyTime contextKey = iota
	contextKeyChainID
	contextKeyLogger
	contextKeySequence
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

// WithBlockTime sets the time every operation executed with this context
// observes as "now".
func WithBlockTime(ctx Context, t UnixTime) Context {
	if _, ok := ctx.Value(contextKeyTime).(UnixTime); ok {
		panic("block time already set")
	}
	return context.WithValue(ctx, contextKeyTime, t)
}

// BlockTime returns the time set with WithBlockTime.
func BlockTime(ctx Context) (UnixTime, error) {
	t, ok := ctx.Value(contextKeyTime).(UnixTime)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block time not present in context")
	}
	return t, nil
}

// IsExpired returns true if given time is in the past as compared to the
// "now" declared in the context. Expiration is inclusive.
func IsExpired(ctx Context, t UnixTime) bool {
	now, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return t <= now
}

// WithChainID sets the chain id for the Context.
// panics if called with chain id already set
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain ID already set in Context")
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("Invalid chain ID: %s", chainID))
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id
// panics if chain id not already set (should never happen)
func GetChainID(ctx Context) string {
	if x := ctx.Value(contextKeyChainID); x == nil {
		panic("Chain ID not present in Context")
	}
	return ctx.Value(contextKeyChainID).(string)
}

// WithSequence records the engine sequence number of the message being
// processed.
func WithSequence(ctx Context, seq uint64) Context {
	return context.WithValue(ctx, contextKeySequence, seq)
}

// GetSequence returns the engine sequence number, if any.
func GetSequence(ctx Context) (uint64, bool) {
	seq, ok := ctx.Value(contextKeySequence).(uint64)
	return seq, ok
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
