package sigs

import (
	"context"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigs contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx lockbox.Context, signers []lockbox.Address) lockbox.Context {
	return context.WithValue(ctx, contextKeySigs, signers)
}

// Authenticate gets/sets permissions on the given context key
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetAddresses returns the addresses that verified signatures
// on this transaction.
func (a Authenticate) GetAddresses(ctx lockbox.Context) []lockbox.Address {
	val, _ := ctx.Value(contextKeySigs).([]lockbox.Address)
	return val
}

// HasAddress returns true iff this address is in GetAddresses
func (a Authenticate) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
