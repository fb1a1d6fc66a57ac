package app

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/x/sigs"
)

// Tx is a message together with the signatures authorizing it.
type Tx struct {
	Msg        lockbox.Msg
	Signatures []*sigs.StdSignature
}

var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg implements lockbox.Tx.
func (tx *Tx) GetMsg() (lockbox.Msg, error) {
	return tx.Msg, nil
}

// GetSignBytes returns the encoded message.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return sigs.SignBytes(tx.Msg)
}

// GetSignatures implements sigs.SignedTx.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}
