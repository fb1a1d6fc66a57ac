package sigs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/store"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(sigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := lockbox.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	perms := []lockbox.Address{priv.PublicKey().Address()}

	tx := newStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec lockbox.Decorator, my lockbox.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec lockbox.Decorator, my lockbox.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(lockbox.Decorator, lockbox.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test with one
		tx.Signatures = []*StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// test with replay
		err = fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Empty(t, signers.Signers)

		// test allowing, with next sequence
		tx.Signatures = []*StdSignature{sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)
	}
}

func TestDecoratorRejectsUnsignedTx(t *testing.T) {
	kv := store.MemStore()
	ctx := lockbox.WithChainID(context.Background(), "unsigned-chain")
	handler := new(sigCheckHandler)

	_, err := NewDecorator().Deliver(ctx, kv, plainTx{}, handler)
	assert.Error(t, err)

	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, kv, plainTx{}, handler)
	assert.NoError(t, err)
	assert.Empty(t, handler.Signers)
}

type plainTx struct{}

func (plainTx) GetMsg() (lockbox.Msg, error) { return nil, nil }
