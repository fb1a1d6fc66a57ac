package protocol

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/x/locker"
)

// CreateLocker deposits into a new locker. msg.Creator and msg.Funder
// must be the addresses of the given signers.
func (p *Protocol) CreateLocker(ctx lockbox.Context, msg *locker.CreateLockerMsg, signers ...crypto.Signer) (*locker.Locker, error) {
	return p.lockerOp(ctx, msg, signers...)
}

// Relock moves the unlock date of the locker to unlock, which cannot be
// earlier than the current one.
func (p *Protocol) Relock(ctx lockbox.Context, owner crypto.Signer, id lockbox.Address, unlock lockbox.UnixTime) (*locker.Locker, error) {
	return p.lockerOp(ctx, &locker.RelockMsg{LockerID: id, UnlockDate: unlock}, owner)
}

// TransferOwnership makes newOwner the owner of the locker.
func (p *Protocol) TransferOwnership(ctx lockbox.Context, owner crypto.Signer, id, newOwner lockbox.Address) (*locker.Locker, error) {
	return p.lockerOp(ctx, &locker.TransferOwnershipMsg{LockerID: id, NewOwner: newOwner}, owner)
}

// IncrementLock adds amount, less the token fee, to the locker. Anyone
// can fund a locker.
func (p *Protocol) IncrementLock(ctx lockbox.Context, funder crypto.Signer, id lockbox.Address, amount uint64) (*locker.Locker, error) {
	return p.lockerOp(ctx, &locker.IncrementLockMsg{LockerID: id, Funder: addressOf(funder), Amount: amount}, funder)
}

// WithdrawFunds moves amount from the locker to target.
func (p *Protocol) WithdrawFunds(ctx lockbox.Context, owner crypto.Signer, id lockbox.Address, amount uint64, target lockbox.Address) (*locker.Locker, error) {
	if target == nil {
		target = addressOf(owner)
	}
	return p.lockerOp(ctx, &locker.WithdrawFundsMsg{LockerID: id, Amount: amount, Target: target}, owner)
}

// SplitLocker moves amount into a new locker owned by newOwner with the
// same schedule. The new locker is returned. Repeating a split returns
// the locker it created.
func (p *Protocol) SplitLocker(ctx lockbox.Context, owner crypto.Signer, id lockbox.Address, amount uint64, newOwner lockbox.Address) (*locker.Locker, error) {
	return p.lockerOp(ctx, &locker.SplitLockerMsg{LockerID: id, Amount: amount, NewOwner: newOwner}, owner)
}

// CloseLocker deletes a locker with an empty vault.
func (p *Protocol) CloseLocker(ctx lockbox.Context, owner crypto.Signer, id, target lockbox.Address) error {
	_, err := p.lockerOp(ctx, &locker.CloseLockerMsg{LockerID: id, Target: target}, owner)
	return err
}

func (p *Protocol) lockerOp(ctx lockbox.Context, msg lockbox.Msg, signers ...crypto.Signer) (*locker.Locker, error) {
	data, err := p.deliver(ctx, msg, signers...)
	if err != nil {
		return nil, err
	}
	return data.(*locker.Locker), nil
}

// Locker returns the locker with given identity.
func (p *Protocol) Locker(id lockbox.Address) (*locker.Locker, error) {
	return locker.LoadLocker(p.engine.Store(), id)
}

// LockersByOwner returns all lockers owned by owner.
func (p *Protocol) LockersByOwner(owner lockbox.Address) ([]*locker.Locker, error) {
	return locker.LockersByOwner(p.engine.Store(), owner)
}

// Withdrawable returns how much the locker releases now.
func (p *Protocol) Withdrawable(id lockbox.Address) (uint64, error) {
	return locker.Withdrawable(p.engine.Store(), id, p.clock.Now())
}

// State returns the status of the locker now.
func (p *Protocol) State(id lockbox.Address) (locker.Status, error) {
	l, err := p.Locker(id)
	if err != nil {
		return 0, err
	}
	return locker.State(l, p.clock.Now())
}
