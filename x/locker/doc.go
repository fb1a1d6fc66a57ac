/*
Package locker implements time gated custody of assets.

A locker holds a deposit in a vault account that no key controls. The
vault authority is an address derived from the locker identity, so only
this extension can move the funds, and only to the locker owner once the
unlock condition holds. Release is either a cliff at the unlock date or a
linear emission between a start date and the unlock date.

The package also keeps the protocol configuration (see Config) and one
MintInfo per admitted asset, which tracks whether the one time admission
fee was paid.
*/
package locker
