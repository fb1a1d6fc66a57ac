package lockboxtest

import (
	"context"
	"fmt"

	"github.com/lockbox-labs/lockbox"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses. You can use
// either Signer or Signers (or both) attributes. Each time all signers,
// regardless of the attribute, are considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer lockbox.Address

	// Signers represents an authentication of multiple signers.
	Signers []lockbox.Address
}

// GetAddresses implements x.Authenticator.
func (a *Auth) GetAddresses(lockbox.Context) []lockbox.Address {
	if a.Signer != nil {
		return append(a.Signers[:len(a.Signers):len(a.Signers)], a.Signer)
	}
	return a.Signers
}

// HasAddress implements x.Authenticator.
func (a *Auth) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve addresses from the context. For
	// convenience only string type keys are allowed.
	Key string
}

// SetAddresses returns a context in which given addresses are
// authenticated.
func (a *CtxAuth) SetAddresses(ctx lockbox.Context, addrs ...lockbox.Address) lockbox.Context {
	return context.WithValue(ctx, a.Key, addrs)
}

// GetAddresses implements x.Authenticator.
func (a *CtxAuth) GetAddresses(ctx lockbox.Context) []lockbox.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	addrs, ok := val.([]lockbox.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []lockbox.Address got %T", val))
	}
	return addrs
}

// HasAddress implements x.Authenticator.
func (a *CtxAuth) HasAddress(ctx lockbox.Context, addr lockbox.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
