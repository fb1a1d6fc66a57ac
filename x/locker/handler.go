package locker

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/gconf"
	"github.com/lockbox-labs/lockbox/orm"
	"github.com/lockbox-labs/lockbox/x"
	"github.com/lockbox-labs/lockbox/x/cash"
	"github.com/lockbox-labs/lockbox/x/countrylist"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, bank cash.Controller, lists countrylist.Controller) {
	bucket := NewLockerBucket()
	v := vault{bank: bank}

	r.Handle(pathInitConfigMsg, InitConfigHandler{auth: auth, lists: lists})
	r.Handle(pathUpdateConfigMsg, UpdateConfigHandler{
		update: gconf.NewUpdateConfigurationHandler(ConfigPkg, newConfig, auth),
		lists:  lists,
	})
	r.Handle(pathCreateMintInfoMsg, CreateMintInfoHandler{auth: auth})
	r.Handle(pathCreateLockerMsg, CreateLockerHandler{auth: auth, bucket: bucket, vault: v, lists: lists})
	r.Handle(pathRelockMsg, RelockHandler{auth: auth, bucket: bucket})
	r.Handle(pathTransferOwnershipMsg, TransferOwnershipHandler{auth: auth, bucket: bucket})
	r.Handle(pathIncrementLockMsg, IncrementLockHandler{auth: auth, bucket: bucket, vault: v})
	r.Handle(pathWithdrawFundsMsg, WithdrawFundsHandler{auth: auth, bucket: bucket, vault: v})
	r.Handle(pathSplitLockerMsg, SplitLockerHandler{auth: auth, bucket: bucket, vault: v})
	r.Handle(pathCloseLockerMsg, CloseLockerHandler{auth: auth, bucket: bucket, vault: v})
}

func newConfig() gconf.OwnedConfig {
	return &Config{}
}

// InitConfigHandler creates the configuration once.
type InitConfigHandler struct {
	auth  x.Authenticator
	lists countrylist.Controller
}

var _ lockbox.Handler = InitConfigHandler{}

// Check verifies the admin signed and the banlist exists.
func (h InitConfigHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver stores the configuration. ErrAlreadyInitialized is returned if
// it already exists.
func (h InitConfigHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := gconf.Create(db, ConfigPkg, msg.Config); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{Data: msg.Config}, nil
}

func (h InitConfigHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*InitConfigMsg, error) {
	var msg InitConfigMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Config.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	if _, err := h.lists.Banlist(db, msg.Config.CountryList); err != nil {
		return nil, errors.Wrap(err, "country list")
	}
	return &msg, nil
}

// UpdateConfigHandler applies configuration patches. A new banlist must
// exist.
type UpdateConfigHandler struct {
	update gconf.UpdateConfigurationHandler
	lists  countrylist.Controller
}

var _ lockbox.Handler = UpdateConfigHandler{}

// Check verifies the patch can be applied.
func (h UpdateConfigHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return h.update.Check(ctx, db, tx)
}

// Deliver stores the patched configuration.
func (h UpdateConfigHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	if err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return h.update.Deliver(ctx, db, tx)
}

func (h UpdateConfigHandler) validate(db lockbox.KVStore, tx lockbox.Tx) error {
	var msg UpdateConfigMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return errors.Wrap(err, "load msg")
	}
	if msg.Patch == nil || msg.Patch.CountryList == nil {
		return nil
	}
	if _, err := h.lists.Banlist(db, msg.Patch.CountryList); err != nil {
		return errors.Wrap(err, "country list")
	}
	return nil
}

// CreateMintInfoHandler admits assets.
type CreateMintInfoHandler struct {
	auth x.Authenticator
}

var _ lockbox.Handler = CreateMintInfoHandler{}

// Check verifies the payer signed the message.
func (h CreateMintInfoHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver returns the mint info of the asset, creating it if needed.
// Admitting an asset twice is not an error.
func (h CreateMintInfoHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	mi, created, err := GetOrCreateMintInfo(ctx, db, h.auth, conf, msg.Asset)
	if err != nil {
		return nil, err
	}
	if created {
		lockbox.GetLogger(ctx).Info("asset admitted", "asset", msg.Asset)
	}
	return &lockbox.DeliverResult{Data: mi}, nil
}

func (h CreateMintInfoHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*CreateMintInfoMsg, *Config, error) {
	var msg CreateMintInfoMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, conf, nil
}

// CreateLockerHandler creates lockers.
type CreateLockerHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	vault  vault
	lists  countrylist.Controller
}

var _ lockbox.Handler = CreateLockerHandler{}

// Check verifies all preconditions of the locker creation.
func (h CreateLockerHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver creates the locker with its vault, charges the fees and moves
// the net deposit into the vault.
func (h CreateLockerHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	n, err := newCreatorSequence(msg.Creator).NextInt(db)
	if err != nil {
		return nil, errors.Wrap(err, "creator sequence")
	}
	id, bump, err := NewLockerAddress(msg.Creator, n)
	if err != nil {
		return nil, err
	}
	vaultAuth, vaultBump, err := VaultAuthorityAddress(id)
	if err != nil {
		return nil, err
	}
	l := &Locker{
		ID:                id,
		Bump:              uint32(bump),
		Creator:           msg.Creator,
		Owner:             msg.Owner,
		Asset:             msg.Asset,
		VaultAuthority:    vaultAuth,
		VaultBump:         uint32(vaultBump),
		CurrentUnlockDate: msg.UnlockDate,
		Linear:            !msg.StartEmission.IsZero(),
		StartEmission:     msg.StartEmission,
		CountryCode:       msg.CountryCode,
	}
	if err := h.vault.open(db, l); err != nil {
		return nil, err
	}

	mi, _, err := GetOrCreateMintInfo(ctx, db, h.auth, conf, msg.Asset)
	if err != nil {
		if errors.ErrUnauthorized.Is(err) {
			return nil, errors.Wrap(ErrAssetNotAdmitted, err.Error())
		}
		return nil, err
	}
	funder := msg.FunderAddress()
	net, err := h.vault.deposit(ctx, db, conf, mi, funder, l, msg.Amount, msg.PayInNative)
	if err != nil {
		return nil, err
	}
	l.DepositedAmount = net

	if err := h.bucket.Create(db, id, l); err != nil {
		return nil, errors.Wrap(err, "cannot store locker")
	}
	lockbox.GetLogger(ctx).Info("locker created",
		"locker", id, "owner", l.Owner, "deposited", net, "unlock", l.CurrentUnlockDate)
	return &lockbox.DeliverResult{Data: l}, nil
}

func (h CreateLockerHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*CreateLockerMsg, *Config, error) {
	var msg CreateLockerMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Creator) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "creator signature required")
	}
	if !h.auth.HasAddress(ctx, msg.FunderAddress()) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "funder signature required")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}

	now, err := lockbox.BlockTime(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "block time")
	}
	if msg.UnlockDate <= now {
		return nil, nil, errors.Wrapf(ErrInvalidUnlockDate, "unlock date %d is in the past", msg.UnlockDate)
	}
	if !msg.StartEmission.IsZero() {
		if !conf.HasLinearEmission {
			return nil, nil, ErrLinearEmissionDisabled
		}
		if msg.StartEmission >= msg.UnlockDate {
			return nil, nil, errors.Wrap(ErrInvalidUnlockDate, "emission must start before the unlock date")
		}
	}

	banned, err := h.lists.IsBanned(db, conf.CountryList, msg.CountryCode)
	if err != nil {
		return nil, nil, errors.Wrap(err, "country list")
	}
	if banned {
		return nil, nil, errors.Wrapf(ErrJurisdictionBanned, "country %s", msg.CountryCode)
	}

	admitted, err := IsAssetAdmitted(db, conf, msg.Asset)
	if err != nil {
		return nil, nil, err
	}
	if !admitted && !h.auth.HasAddress(ctx, conf.Admin) {
		return nil, nil, errors.Wrapf(ErrAssetNotAdmitted, "asset %s", msg.Asset)
	}
	return &msg, conf, nil
}

// RelockHandler moves unlock dates forward.
type RelockHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ lockbox.Handler = RelockHandler{}

// Check verifies the owner signed and the date does not move back.
func (h RelockHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver stores the new unlock date.
func (h RelockHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, l, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	l.CurrentUnlockDate = msg.UnlockDate
	if err := h.bucket.Put(db, l.ID, l); err != nil {
		return nil, errors.Wrap(err, "cannot store locker")
	}
	return &lockbox.DeliverResult{Data: l}, nil
}

func (h RelockHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*RelockMsg, *Locker, error) {
	var msg RelockMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	l, err := loadOwned(ctx, db, h.auth, msg.LockerID)
	if err != nil {
		return nil, nil, err
	}
	if msg.UnlockDate < l.CurrentUnlockDate {
		return nil, nil, errors.Wrapf(ErrInvalidUnlockDate, "cannot unlock earlier than %d", l.CurrentUnlockDate)
	}
	return &msg, l, nil
}

// TransferOwnershipHandler changes the owner of lockers.
type TransferOwnershipHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ lockbox.Handler = TransferOwnershipHandler{}

// Check verifies the current owner signed.
func (h TransferOwnershipHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver stores the new owner.
func (h TransferOwnershipHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, l, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	l.Owner = msg.NewOwner
	if err := h.bucket.Put(db, l.ID, l); err != nil {
		return nil, errors.Wrap(err, "cannot store locker")
	}
	return &lockbox.DeliverResult{Data: l}, nil
}

func (h TransferOwnershipHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*TransferOwnershipMsg, *Locker, error) {
	var msg TransferOwnershipMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	l, err := loadOwned(ctx, db, h.auth, msg.LockerID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, l, nil
}

// IncrementLockHandler adds funds to lockers.
type IncrementLockHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	vault  vault
}

var _ lockbox.Handler = IncrementLockHandler{}

// Check verifies the funder signed and the locker exists.
func (h IncrementLockHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver charges the token fee and moves the rest into the vault.
func (h IncrementLockHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, l, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	mi, err := LoadMintInfo(db, l.Asset)
	switch {
	case errors.ErrNotFound.Is(err):
		mi = &MintInfo{Asset: l.Asset}
	case err != nil:
		return nil, err
	}
	net, err := h.vault.deposit(ctx, db, conf, mi, msg.Funder, l, msg.Amount, false)
	if err != nil {
		return nil, err
	}
	if l.DepositedAmount+net < l.DepositedAmount {
		return nil, errors.Wrap(errors.ErrOverflow, "deposited amount")
	}
	l.DepositedAmount += net
	if err := h.bucket.Put(db, l.ID, l); err != nil {
		return nil, errors.Wrap(err, "cannot store locker")
	}
	return &lockbox.DeliverResult{Data: l}, nil
}

func (h IncrementLockHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*IncrementLockMsg, *Locker, *Config, error) {
	var msg IncrementLockMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Funder) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "funder signature required")
	}
	l, err := LoadLocker(db, msg.LockerID)
	if err != nil {
		return nil, nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, l, conf, nil
}

// WithdrawFundsHandler releases funds of lockers.
type WithdrawFundsHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	vault  vault
}

var _ lockbox.Handler = WithdrawFundsHandler{}

// Check verifies the owner signed and the amount is released.
func (h WithdrawFundsHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver moves the funds from the vault to the target.
func (h WithdrawFundsHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, l, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.vault.release(ctx, db, l, msg.Target, msg.Amount); err != nil {
		return nil, err
	}
	l.WithdrawnAmount += msg.Amount
	if err := h.bucket.Put(db, l.ID, l); err != nil {
		return nil, errors.Wrap(err, "cannot store locker")
	}
	lockbox.GetLogger(ctx).Info("locker withdrawal",
		"locker", l.ID, "amount", msg.Amount, "remaining", l.Remaining())
	return &lockbox.DeliverResult{Data: l}, nil
}

func (h WithdrawFundsHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*WithdrawFundsMsg, *Locker, error) {
	var msg WithdrawFundsMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	l, err := loadOwned(ctx, db, h.auth, msg.LockerID)
	if err != nil {
		return nil, nil, err
	}
	now, err := lockbox.BlockTime(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "block time")
	}
	available, err := WithdrawableAmount(l, now)
	if err != nil {
		return nil, nil, err
	}
	if msg.Amount > available {
		return nil, nil, errors.Wrapf(ErrTooEarlyToWithdraw, "withdrawable %d, requested %d", available, msg.Amount)
	}
	return &msg, l, nil
}

// SplitLockerHandler splits lockers in two.
type SplitLockerHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	vault  vault
}

var _ lockbox.Handler = SplitLockerHandler{}

// Check verifies the owner signed and the locker holds enough.
func (h SplitLockerHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver creates the child locker and moves the funds between the
// vaults. Repeating a split that already happened, with the same amount
// and new owner, returns the existing child and changes nothing. Any
// other split onto the same child fails with ErrDuplicate.
func (h SplitLockerHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if s.existing != nil {
		return &lockbox.DeliverResult{Data: s.existing}, nil
	}

	parent := s.parent
	childAuth, childVaultBump, err := VaultAuthorityAddress(s.childID)
	if err != nil {
		return nil, err
	}
	child := &Locker{
		ID:                s.childID,
		Bump:              uint32(s.childBump),
		Creator:           parent.Owner,
		Owner:             s.msg.NewOwner,
		Asset:             parent.Asset,
		VaultAuthority:    childAuth,
		VaultBump:         uint32(childVaultBump),
		DepositedAmount:   s.msg.Amount,
		CurrentUnlockDate: parent.CurrentUnlockDate,
		Linear:            parent.Linear,
		StartEmission:     parent.StartEmission,
		CountryCode:       parent.CountryCode,
		ParentID:          parent.ID,
	}
	if err := h.vault.open(db, child); err != nil {
		return nil, err
	}
	if err := h.vault.release(ctx, db, parent, childAuth, s.msg.Amount); err != nil {
		return nil, err
	}
	parent.DepositedAmount -= s.msg.Amount
	if err := h.bucket.Put(db, parent.ID, parent); err != nil {
		return nil, errors.Wrap(err, "cannot store parent locker")
	}
	if err := h.bucket.Create(db, child.ID, child); err != nil {
		return nil, errors.Wrap(err, "cannot store child locker")
	}
	return &lockbox.DeliverResult{Data: child}, nil
}

type split struct {
	msg       *SplitLockerMsg
	parent    *Locker
	childID   lockbox.Address
	childBump uint8
	// existing is set when the split already happened.
	existing *Locker
}

func (h SplitLockerHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*split, error) {
	var msg SplitLockerMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	parent, err := loadOwned(ctx, db, h.auth, msg.LockerID)
	if err != nil {
		return nil, err
	}
	childID, childBump, err := SplitAddress(parent.ID, parent.CurrentUnlockDate, msg.Amount)
	if err != nil {
		return nil, err
	}
	s := &split{msg: &msg, parent: parent, childID: childID, childBump: childBump}

	var existing Locker
	switch err := h.bucket.One(db, childID, &existing); {
	case err == nil:
		if !existing.ParentID.Equals(parent.ID) || !existing.Owner.Equals(msg.NewOwner) || existing.DepositedAmount != msg.Amount {
			return nil, errors.Wrapf(errors.ErrDuplicate, "split of %d already made to %s", msg.Amount, existing.Owner)
		}
		s.existing = &existing
		return s, nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	if msg.Amount > parent.Remaining() {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "locker holds %d", parent.Remaining())
	}
	return s, nil
}

// CloseLockerHandler removes empty lockers.
type CloseLockerHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	vault  vault
}

var _ lockbox.Handler = CloseLockerHandler{}

// Check verifies the owner signed and everything deposited was
// withdrawn.
func (h CloseLockerHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver sends whatever the vault still holds to the target, which can
// only be value sent to the vault outside of the locker, and deletes the
// vault account and the locker.
func (h CloseLockerHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, l, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	surplus, err := h.vault.balance(db, l)
	if err != nil {
		return nil, err
	}
	if surplus > 0 {
		if err := h.vault.release(ctx, db, l, msg.sweepTarget(l), surplus); err != nil {
			return nil, errors.Wrap(err, "sweep vault")
		}
	}
	if err := h.vault.close(ctx, db, l); err != nil {
		return nil, errors.Wrap(err, "close vault")
	}
	if err := h.bucket.Delete(db, l.ID); err != nil {
		return nil, errors.Wrap(err, "cannot delete locker")
	}
	lockbox.GetLogger(ctx).Info("locker closed", "locker", l.ID, "target", msg.Target)
	return &lockbox.DeliverResult{Data: l}, nil
}

func (h CloseLockerHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*CloseLockerMsg, *Locker, error) {
	var msg CloseLockerMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	l, err := loadOwned(ctx, db, h.auth, msg.LockerID)
	if err != nil {
		return nil, nil, err
	}
	if rest := l.Remaining(); rest != 0 {
		return nil, nil, errors.Wrapf(errors.ErrState, "%d not withdrawn", rest)
	}
	return &msg, l, nil
}

// loadOwned returns the locker if its owner signed the transaction.
func loadOwned(ctx lockbox.Context, db lockbox.ReadOnlyKVStore, auth x.Authenticator, id lockbox.Address) (*Locker, error) {
	l, err := LoadLocker(db, id)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, l.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return l, nil
}
