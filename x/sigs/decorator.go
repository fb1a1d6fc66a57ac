package sigs

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// Decorator verifies every signature of a transaction against the chain
// ID and the signer sequence, then puts the signer addresses into the
// context, where Authenticate reads them.
type Decorator struct {
	unsignedOK bool
}

var _ lockbox.Decorator = Decorator{}

// NewDecorator returns a decorator rejecting transactions without at
// least one valid signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through with no signers in
// the context. Present signatures are still verified.
func (d Decorator) AllowMissingSigs() Decorator {
	return Decorator{unsignedOK: true}
}

func (d Decorator) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	signed, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(signed, db, tx)
}

func (d Decorator) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	signed, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(signed, db, tx)
}

// verify returns ctx extended with the verified signers. Verification
// bumps each signer sequence in db.
func (d Decorator) verify(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (lockbox.Context, error) {
	var signers []lockbox.Address
	if stx, ok := tx.(SignedTx); ok {
		var err error
		if signers, err = VerifyTxSignatures(db, stx, lockbox.GetChainID(ctx)); err != nil {
			return nil, err
		}
	}
	if len(signers) == 0 && !d.unsignedOK {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%T carries no signature", tx)
	}
	return withSigners(ctx, signers), nil
}
