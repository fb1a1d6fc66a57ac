package x

import (
	"context"

	"github.com/lockbox-labs/lockbox"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetAddresses reveals all identities that authorized the
	// current message.
	GetAddresses(lockbox.Context) []lockbox.Address
	// HasAddress checks if any identity matches this address
	HasAddress(lockbox.Context, lockbox.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines all addresses from all Authenticators
func (m MultiAuth) GetAddresses(ctx lockbox.Context) []lockbox.Address {
	var res []lockbox.Address
	for _, impl := range m.impls {
		res = append(res, impl.GetAddresses(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first address if any, otherwise nil
func MainSigner(ctx lockbox.Context, auth Authenticator) lockbox.Address {
	signers := auth.GetAddresses(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx lockbox.Context, auth Authenticator, required []lockbox.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

type contextKey int // local to the x module

const (
	contextKeyDerived contextKey = iota
)

// DerivedAuth authenticates derived addresses. An extension that owns a
// derived address proves it by recomputing the address from its seeds
// and persisted bump, there is no key to sign with.
type DerivedAuth struct{}

var _ Authenticator = DerivedAuth{}

// Grant verifies that addr is derived from the given seeds and bump and
// returns a context in which addr is authenticated.
func (DerivedAuth) Grant(ctx lockbox.Context, addr lockbox.Address, namespace string, bump uint8, seeds ...[]byte) (lockbox.Context, error) {
	if err := lockbox.VerifyAddress(addr, namespace, bump, seeds...); err != nil {
		return ctx, err
	}
	prev, _ := ctx.Value(contextKeyDerived).([]lockbox.Address)
	granted := make([]lockbox.Address, 0, len(prev)+1)
	granted = append(granted, prev...)
	granted = append(granted, addr)
	return context.WithValue(ctx, contextKeyDerived, granted), nil
}

// GetAddresses returns all addresses granted on this context.
func (DerivedAuth) GetAddresses(ctx lockbox.Context) []lockbox.Address {
	granted, _ := ctx.Value(contextKeyDerived).([]lockbox.Address)
	return granted
}

// HasAddress returns true iff the address was granted on this context.
func (a DerivedAuth) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	for _, g := range a.GetAddresses(ctx) {
		if g.Equals(addr) {
			return true
		}
	}
	return false
}
