package lockbox

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/lockbox-labs/lockbox/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by a derivation.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length in bytes of a single seed.
	MaxSeedLength = 32

	derivationMarker = "DerivedAddress"
)

// CreateAddress computes the address derived from the given seeds and
// bump within namespace. It fails with errors.ErrOnCurve when the result
// is a valid edwards25519 point, because such an address could have a
// private key.
//
// The same inputs always produce the same address.
func CreateAddress(namespace string, bump uint8, seeds ...[]byte) (Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write([]byte(namespace))
	_, _ = h.Write([]byte(derivationMarker))
	addr := Address(h.Sum(nil))
	if isOnCurve(addr) {
		return nil, errors.ErrOnCurve
	}
	return addr, nil
}

// DeriveAddress searches the bump space from 255 down to 0 and returns
// the first address that is not on the curve together with its bump.
//
// The bump must be persisted next to any record stored at the address
// and later verified with CreateAddress, never searched again.
func DeriveAddress(namespace string, seeds ...[]byte) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateAddress(namespace, uint8(bump), seeds...)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case errors.ErrOnCurve.Is(err):
			continue
		default:
			return nil, 0, err
		}
	}
	return nil, 0, errors.ErrDerivationExhausted
}

// VerifyAddress returns an error unless the address is the one derived
// from the seeds with the given bump.
func VerifyAddress(addr Address, namespace string, bump uint8, seeds ...[]byte) error {
	want, err := CreateAddress(namespace, bump, seeds...)
	if err != nil {
		return err
	}
	if !want.Equals(addr) {
		return errors.Wrap(errors.ErrUnauthorized, "derivation mismatch")
	}
	return nil
}

// Uint64Seed returns the big endian representation of n, to be used as
// a derivation seed.
func Uint64Seed(n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return b[:]
}

// isOnCurve returns true if the 32 byte value decodes to a valid
// edwards25519 point.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
