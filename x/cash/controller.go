package cash

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/orm"
	"github.com/lockbox-labs/lockbox/x"
)

// Controller is the functionality needed by other extensions to move
// value. Accounts are addressed by their owner and asset.
type Controller interface {
	// Account returns the account of owner for asset, or ErrNotFound.
	Account(db lockbox.ReadOnlyKVStore, owner, asset lockbox.Address) (*Account, error)

	// Balance returns the balance of owner for asset. A missing
	// account has a zero balance.
	Balance(db lockbox.ReadOnlyKVStore, owner, asset lockbox.Address) (uint64, error)

	// OpenAccount creates an empty account unless it already exists.
	// The existing or created account is returned.
	OpenAccount(db lockbox.KVStore, owner, asset lockbox.Address) (*Account, error)

	// Transfer moves amount of asset from the account of src to the
	// account of dest. The owner of src must be authenticated. The
	// destination account is opened when missing.
	Transfer(ctx lockbox.Context, db lockbox.KVStore, asset, src, dest lockbox.Address, amount uint64) error

	// Issue adds amount of asset to the account of dest.
	Issue(db lockbox.KVStore, asset, dest lockbox.Address, amount uint64) error

	// CloseAccount removes an empty account. The owner must be
	// authenticated.
	CloseAccount(ctx lockbox.Context, db lockbox.KVStore, owner, asset lockbox.Address) error

	// AccountsOf returns all accounts of an owner.
	AccountsOf(db lockbox.ReadOnlyKVStore, owner lockbox.Address) ([]*Account, error)
}

// BaseController is the default cash controller.
type BaseController struct {
	bucket orm.ModelBucket
	auth   x.Authenticator
}

var _ Controller = BaseController{}

// NewController returns a controller authorizing withdrawals with auth.
func NewController(auth x.Authenticator) BaseController {
	return BaseController{
		bucket: NewBucket(),
		auth:   auth,
	}
}

// Account implements Controller.
func (c BaseController) Account(db lockbox.ReadOnlyKVStore, owner, asset lockbox.Address) (*Account, error) {
	addr, _, err := AccountAddress(owner, asset)
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := c.bucket.One(db, addr, &acc); err != nil {
		return nil, errors.Wrapf(err, "account %s of %s", asset, owner)
	}
	return &acc, nil
}

// Balance implements Controller.
func (c BaseController) Balance(db lockbox.ReadOnlyKVStore, owner, asset lockbox.Address) (uint64, error) {
	acc, err := c.Account(db, owner, asset)
	switch {
	case err == nil:
		return acc.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// OpenAccount implements Controller.
func (c BaseController) OpenAccount(db lockbox.KVStore, owner, asset lockbox.Address) (*Account, error) {
	addr, bump, err := AccountAddress(owner, asset)
	if err != nil {
		return nil, err
	}
	var acc Account
	switch err := c.bucket.One(db, addr, &acc); {
	case err == nil:
		return &acc, nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	acc = Account{Owner: owner, Asset: asset, Bump: uint32(bump)}
	if err := c.bucket.Create(db, addr, &acc); err != nil {
		return nil, errors.Wrap(err, "cannot create account")
	}
	return &acc, nil
}

// Transfer implements Controller.
func (c BaseController) Transfer(ctx lockbox.Context, db lockbox.KVStore, asset, src, dest lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "transfer of zero")
	}
	if !c.auth.HasAddress(ctx, src) {
		return errors.Wrapf(errors.ErrUnauthorized, "owner %s did not authorize", src)
	}
	sender, err := c.Account(db, src, asset)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrap(errors.ErrInsufficientFunds, "no source account")
		}
		return err
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, want %d", sender.Balance, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.OpenAccount(db, dest, asset)
	if err != nil {
		return err
	}
	if recipient.Balance+amount < recipient.Balance {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	sender.Balance -= amount
	recipient.Balance += amount
	if err := c.save(db, sender); err != nil {
		return err
	}
	return c.save(db, recipient)
}

// Issue implements Controller.
func (c BaseController) Issue(db lockbox.KVStore, asset, dest lockbox.Address, amount uint64) error {
	recipient, err := c.OpenAccount(db, dest, asset)
	if err != nil {
		return err
	}
	if recipient.Balance+amount < recipient.Balance {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	recipient.Balance += amount
	return c.save(db, recipient)
}

// CloseAccount implements Controller.
func (c BaseController) CloseAccount(ctx lockbox.Context, db lockbox.KVStore, owner, asset lockbox.Address) error {
	if !c.auth.HasAddress(ctx, owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "owner %s did not authorize", owner)
	}
	acc, err := c.Account(db, owner, asset)
	if err != nil {
		return err
	}
	if acc.Balance != 0 {
		return errors.Wrapf(errors.ErrState, "account holds %d", acc.Balance)
	}
	addr, err := c.address(acc)
	if err != nil {
		return err
	}
	return c.bucket.Delete(db, addr)
}

// AccountsOf implements Controller.
func (c BaseController) AccountsOf(db lockbox.ReadOnlyKVStore, owner lockbox.Address) ([]*Account, error) {
	var accs []*Account
	if _, err := c.bucket.ByIndex(db, "owner", owner, &accs); err != nil {
		return nil, err
	}
	return accs, nil
}

func (c BaseController) save(db lockbox.KVStore, acc *Account) error {
	addr, err := c.address(acc)
	if err != nil {
		return err
	}
	return c.bucket.Put(db, addr, acc)
}

// address recreates the account address from the persisted bump.
func (c BaseController) address(acc *Account) (lockbox.Address, error) {
	return lockbox.CreateAddress(DerivationNamespace, uint8(acc.Bump), acc.Owner, acc.Asset)
}
