package sigs

import (
	"testing"

	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
)

func TestUserDataSequence(t *testing.T) {
	u := UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey()}
	assert.Nil(t, u.Validate())

	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(1))
	assert.Nil(t, u.CheckAndIncrementSequence(0))
	assert.Equal(t, int64(1), u.Sequence)

	u.Sequence = maxSequenceValue
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(maxSequenceValue))
}

func TestUserDataValidate(t *testing.T) {
	u := UserData{Sequence: -1}
	err := u.Validate()
	assert.FieldError(t, err, "Sequence", ErrInvalidSequence)
	assert.FieldError(t, err, "Pubkey", errors.ErrEmpty)
}
