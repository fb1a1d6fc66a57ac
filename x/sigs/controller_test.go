package sigs

import (
	"testing"

	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
	"github.com/lockbox-labs/lockbox/store"
)

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	msg := []byte("hello")
	chainID := "emo-music-2345"

	sig0, err := SignTx(priv, newStdTx(msg), chainID, 0)
	assert.Nil(t, err)
	sig1, err := SignTx(priv, newStdTx(msg), chainID, 1)
	assert.Nil(t, err)

	// wrong sequence
	_, err = VerifySignature(kv, sig1, msg, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	// wrong chain
	_, err = VerifySignature(kv, sig0, msg, "foobar-chain")
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// wrong message
	_, err = VerifySignature(kv, sig0, []byte("bye"), chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	signer, err := VerifySignature(kv, sig0, msg, chainID)
	assert.Nil(t, err)
	assert.Equal(t, pub.Address(), signer)

	// replay
	_, err = VerifySignature(kv, sig0, msg, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	_, err = VerifySignature(kv, sig1, msg, chainID)
	assert.Nil(t, err)

	nonce, err := NextNonce(kv, pub.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(2), nonce)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "test-chain"
	a, b := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()

	tx := newStdTx([]byte("multi"))
	sa, err := SignTx(a, tx, chainID, 0)
	assert.Nil(t, err)
	sb, err := SignTx(b, tx, chainID, 0)
	assert.Nil(t, err)
	tx.Signatures = []*StdSignature{sa, sb}

	signers, err := VerifyTxSignatures(kv, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(signers))
	assert.Equal(t, a.PublicKey().Address(), signers[0])
	assert.Equal(t, b.PublicKey().Address(), signers[1])

	keys := SignerKeys(tx)
	assert.Equal(t, 2, len(keys))
	assert.Equal(t, UserKey(a.PublicKey().Address()), keys[0])

	ok, err := kv.Has(keys[1])
	assert.Nil(t, err)
	assert.True(t, ok, "user data stored under the signer key")
}

func TestBuildSignBytes(t *testing.T) {
	_, err := BuildSignBytes([]byte("x"), "a", 0)
	assert.IsErr(t, errors.ErrInput, err)

	_, err = BuildSignBytes([]byte("x"), "valid-chain", -1)
	assert.IsErr(t, ErrInvalidSequence, err)

	one, err := BuildSignBytes([]byte("x"), "valid-chain", 3)
	assert.Nil(t, err)
	two, err := BuildSignBytes([]byte("x"), "valid-chain", 4)
	assert.Nil(t, err)
	assert.Equal(t, 64, len(one))
	assert.True(t, string(one) != string(two), "nonce is part of the digest")
}
