// Package crypto provides the ed25519 keys used to authenticate
// identities.
package crypto
