package lockbox

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/lockbox-labs/lockbox/errors"
)

// AddressLength is the length of all addresses.
const AddressLength = 32

// Address represents an identity or a derived record location. Both
// public keys and derived addresses use the same 32 byte space.
type Address []byte

// NativeAsset is the asset identifier of the chain native currency.
// It is the zero address, which is never a valid key nor a valid
// derived address.
var NativeAsset = Address(make([]byte, AddressLength))

// NewAddress hashes the given data into an address. It is used for
// test identities and non derived record locations.
func NewAddress(data []byte) Address {
	h := sha256.Sum256(data)
	return Address(h[:])
}

// ParseAddress decodes a base58 representation of an address.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	raw := base58.Decode(s)
	a := Address(raw)
	if err := a.Validate(); err != nil {
		return nil, errors.Wrapf(err, "cannot decode %q", s)
	}
	return a, nil
}

// Equals returns true if the addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// IsNative returns true for the native asset identifier.
func (a Address) IsNative() bool {
	return a.Equals(NativeAsset)
}

// Validate returns an error if the address is not of the expected
// length.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.ErrEmpty
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// String returns the base58 representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// MarshalJSON encodes the address as a base58 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(a))
}

// UnmarshalJSON decodes a base58 string.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	if s == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
