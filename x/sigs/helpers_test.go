package sigs

import (
	"github.com/lockbox-labs/lockbox"
)

// stdTx is a minimal signed tx carrying raw sign bytes.
type stdTx struct {
	payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)
var _ lockbox.Tx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{payload: payload}
}

func (tx *stdTx) GetMsg() (lockbox.Msg, error) { return nil, nil }

func (tx *stdTx) GetSignBytes() ([]byte, error) { return tx.payload, nil }

func (tx *stdTx) GetSignatures() []*StdSignature { return tx.Signatures }

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []lockbox.Address
}

var _ lockbox.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &lockbox.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &lockbox.DeliverResult{}, nil
}
