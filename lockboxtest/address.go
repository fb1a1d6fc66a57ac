package lockboxtest

import (
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/crypto"
)

var sequence uint64

// NewAddress returns a unique address on every call.
func NewAddress() lockbox.Address {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], atomic.AddUint64(&sequence, 1))
	h := sha256.Sum256(append([]byte("lockboxtest"), b[:]...))
	return lockbox.Address(h[:])
}

// SequenceID returns the big endian encoded value, useful to build
// record keys in tests.
func SequenceID(n uint64) []byte {
	return lockbox.Uint64Seed(n)
}

// NewKey returns a fresh random signing key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}
