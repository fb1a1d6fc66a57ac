package sigs

import "github.com/lockbox-labs/lockbox/errors"

// ErrInvalidSequence is returned when the signature carries an outdated
// or future nonce.
var ErrInvalidSequence = errors.Register(1100, "invalid sequence number")
