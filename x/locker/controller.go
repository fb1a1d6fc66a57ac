package locker

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/x"
	"github.com/lockbox-labs/lockbox/x/cash"
)

// LoadConfig returns the current configuration.
func LoadConfig(db lockbox.ReadOnlyKVStore) (*Config, error) {
	return loadConf(db)
}

// LoadLocker returns the locker with the given identity.
func LoadLocker(db lockbox.ReadOnlyKVStore, id lockbox.Address) (*Locker, error) {
	var l Locker
	if err := NewLockerBucket().One(db, id, &l); err != nil {
		return nil, errors.Wrapf(err, "locker %s", id)
	}
	return &l, nil
}

// LockersByOwner returns all lockers currently owned by owner.
func LockersByOwner(db lockbox.ReadOnlyKVStore, owner lockbox.Address) ([]*Locker, error) {
	var lockers []*Locker
	if _, err := NewLockerBucket().ByIndex(db, "owner", owner, &lockers); err != nil {
		return nil, err
	}
	return lockers, nil
}

// LoadMintInfo returns the mint info of asset.
func LoadMintInfo(db lockbox.ReadOnlyKVStore, asset lockbox.Address) (*MintInfo, error) {
	addr, _, err := MintInfoAddress(asset)
	if err != nil {
		return nil, err
	}
	var mi MintInfo
	if err := NewMintInfoBucket().One(db, addr, &mi); err != nil {
		return nil, errors.Wrapf(err, "mint info of %s", asset)
	}
	return &mi, nil
}

// IsAssetAdmitted returns true if lockers of asset can be created. In
// open mode every asset is admitted, in permissioned mode only those with
// a mint info.
func IsAssetAdmitted(db lockbox.ReadOnlyKVStore, conf *Config, asset lockbox.Address) (bool, error) {
	if !conf.MintInfoPermissioned {
		return true, nil
	}
	switch _, err := LoadMintInfo(db, asset); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// GetOrCreateMintInfo returns the mint info of asset, creating it when
// missing. In permissioned mode only the configuration admin can create
// one. The second result is true if the mint info was created.
func GetOrCreateMintInfo(ctx lockbox.Context, db lockbox.KVStore, auth x.Authenticator, conf *Config, asset lockbox.Address) (*MintInfo, bool, error) {
	addr, bump, err := MintInfoAddress(asset)
	if err != nil {
		return nil, false, err
	}
	bucket := NewMintInfoBucket()
	var mi MintInfo
	switch err := bucket.One(db, addr, &mi); {
	case err == nil:
		return &mi, false, nil
	case !errors.ErrNotFound.Is(err):
		return nil, false, err
	}
	if conf.MintInfoPermissioned && !auth.HasAddress(ctx, conf.Admin) {
		return nil, false, errors.Wrap(errors.ErrUnauthorized, "only admin can admit assets")
	}
	mi = MintInfo{Asset: asset, Bump: uint32(bump)}
	if err := bucket.Create(db, addr, &mi); err != nil {
		return nil, false, errors.Wrap(err, "cannot store mint info")
	}
	return &mi, true, nil
}

func saveMintInfo(db lockbox.KVStore, mi *MintInfo) error {
	addr, err := lockbox.CreateAddress(DerivationNamespace, uint8(mi.Bump), seedMint, mi.Asset)
	if err != nil {
		return err
	}
	return NewMintInfoBucket().Put(db, addr, mi)
}

// vault moves funds out of the vaults of lockers. The vault authority is
// granted by recomputing it from the persisted bump.
type vault struct {
	bank cash.Controller
}

func (v vault) authorize(ctx lockbox.Context, l *Locker) (lockbox.Context, error) {
	ctx, err := x.DerivedAuth{}.Grant(ctx, l.VaultAuthority, DerivationNamespace, uint8(l.VaultBump), l.ID)
	if err != nil {
		return nil, errors.Wrap(err, "vault authority")
	}
	return ctx, nil
}

func (v vault) release(ctx lockbox.Context, db lockbox.KVStore, l *Locker, dest lockbox.Address, amount uint64) error {
	ctx, err := v.authorize(ctx, l)
	if err != nil {
		return err
	}
	return v.bank.Transfer(ctx, db, l.Asset, l.VaultAuthority, dest, amount)
}

func (v vault) balance(db lockbox.ReadOnlyKVStore, l *Locker) (uint64, error) {
	return v.bank.Balance(db, l.VaultAuthority, l.Asset)
}

func (v vault) close(ctx lockbox.Context, db lockbox.KVStore, l *Locker) error {
	ctx, err := v.authorize(ctx, l)
	if err != nil {
		return err
	}
	err = v.bank.CloseAccount(ctx, db, l.VaultAuthority, l.Asset)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}

// open creates the vault account of a new locker.
func (v vault) open(db lockbox.KVStore, l *Locker) error {
	acc, err := v.bank.OpenAccount(db, l.VaultAuthority, l.Asset)
	if err != nil {
		return errors.Wrap(err, "open vault")
	}
	addr, err := lockbox.CreateAddress(cash.DerivationNamespace, uint8(acc.Bump), acc.Owner, acc.Asset)
	if err != nil {
		return err
	}
	l.Vault = addr
	return nil
}

// deposit charges the fee for amount and moves the rest from funder into
// the vault of l. The net deposit is returned.
func (v vault) deposit(ctx lockbox.Context, db lockbox.KVStore, conf *Config, mi *MintInfo, funder lockbox.Address, l *Locker, amount uint64, payInNative bool) (uint64, error) {
	quote, err := ComputeFee(conf, mi, amount, payInNative)
	if err != nil {
		return 0, err
	}
	if quote.Native > 0 {
		if err := v.bank.Transfer(ctx, db, lockbox.NativeAsset, funder, conf.FeeWallet, quote.Native); err != nil {
			return 0, errors.Wrap(err, "flat fee")
		}
	}
	if quote.MarkFeePaid {
		mi.FeePaid = true
		if err := saveMintInfo(db, mi); err != nil {
			return 0, err
		}
	}
	if quote.Token > 0 {
		if err := v.bank.Transfer(ctx, db, l.Asset, funder, conf.FeeWallet, quote.Token); err != nil {
			return 0, errors.Wrap(err, "token fee")
		}
	}
	net := quote.Net(amount)
	if net == 0 {
		return 0, errors.Wrap(errors.ErrAmount, "nothing to lock after fees")
	}
	if err := v.bank.Transfer(ctx, db, l.Asset, funder, l.VaultAuthority, net); err != nil {
		return 0, errors.Wrap(err, "deposit")
	}
	return net, nil
}
