package crypto

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/lockbox-labs/lockbox/errors"
)

// KeyPrefix is the human readable part of an encoded private key.
const KeyPrefix = "lbxkey"

// EncodePrivateKey returns the bech32 text form of the key seed.
func EncodePrivateKey(p *PrivateKey) (string, error) {
	payload, err := bech32.ConvertBits(p.Seed(), 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}
	raw, err := bech32.Encode(KeyPrefix, payload)
	if err != nil {
		return "", errors.Wrap(err, "bech32 encode")
	}
	return raw, nil
}

// DecodePrivateKey parses a key encoded with EncodePrivateKey.
func DecodePrivateKey(raw string) (*PrivateKey, error) {
	hrp, payload, err := bech32.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if hrp != KeyPrefix {
		return nil, errors.Wrapf(errors.ErrInput, "unexpected prefix %q", hrp)
	}
	seed, err := bech32.ConvertBits(payload, 5, 8, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return PrivKeyEd25519FromSeed(seed)
}
