/*
Package cash implements the value ledger of the custody engine.

Every (owner, asset) pair holds at most one Account. The account is
stored at an address derived from the owner and the asset, so the
account of any owner can be located without a lookup table. Owners
are either identities proven by signatures or derived authorities,
such as locker vaults, proven by recomputing their derivation.
*/
package cash
