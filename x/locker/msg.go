package locker

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/gconf"
	"github.com/lockbox-labs/lockbox/x/cash"
	"github.com/lockbox-labs/lockbox/x/countrylist"
)

const (
	pathInitConfigMsg        = "locker/init_config"
	pathUpdateConfigMsg      = "locker/update_config"
	pathCreateMintInfoMsg    = "locker/create_mint_info"
	pathCreateLockerMsg      = "locker/create"
	pathRelockMsg            = "locker/relock"
	pathTransferOwnershipMsg = "locker/transfer_ownership"
	pathIncrementLockMsg     = "locker/increment"
	pathWithdrawFundsMsg     = "locker/withdraw"
	pathSplitLockerMsg       = "locker/split"
	pathCloseLockerMsg       = "locker/close"
)

// InitConfigMsg creates the configuration. It must be signed by the
// configuration admin.
type InitConfigMsg struct {
	Config *Config `protobuf:"bytes,1,opt,name=config,proto3" json:"config,omitempty"`
}

var _ lockbox.Msg = (*InitConfigMsg)(nil)

func (m *InitConfigMsg) Reset()         { *m = InitConfigMsg{} }
func (m *InitConfigMsg) String() string { return proto.CompactTextString(m) }
func (*InitConfigMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (InitConfigMsg) Path() string { return pathInitConfigMsg }

// Validate ensures the message is well formed.
func (m *InitConfigMsg) Validate() error {
	if m.Config == nil {
		return errors.Field("Config", errors.ErrEmpty, "required")
	}
	return m.Config.Validate()
}

// Keys returns the configuration key.
func (m *InitConfigMsg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return [][]byte{gconf.Key(ConfigPkg)}, nil
}

// UpdateConfigMsg changes the configuration. Non zero fields of Patch
// replace the current values, boolean settings are changed with toggles.
type UpdateConfigMsg struct {
	Patch                *Config `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
	MintInfoPermissioned Toggle  `protobuf:"varint,2,opt,name=mint_info_permissioned,json=mintInfoPermissioned,proto3" json:"mint_info_permissioned,omitempty"`
	HasLinearEmission    Toggle  `protobuf:"varint,3,opt,name=has_linear_emission,json=hasLinearEmission,proto3" json:"has_linear_emission,omitempty"`
}

var _ lockbox.Msg = (*UpdateConfigMsg)(nil)
var _ gconf.Patcher = (*UpdateConfigMsg)(nil)

func (m *UpdateConfigMsg) Reset()         { *m = UpdateConfigMsg{} }
func (m *UpdateConfigMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (UpdateConfigMsg) Path() string { return pathUpdateConfigMsg }

// Validate ensures the message is well formed. Booleans of Patch are
// ignored, toggles must be used instead.
func (m *UpdateConfigMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "MintInfoPermissioned", m.MintInfoPermissioned.Validate())
	errs = errors.AppendField(errs, "HasLinearEmission", m.HasLinearEmission.Validate())
	if m.Patch != nil {
		if m.Patch.MintInfoPermissioned || m.Patch.HasLinearEmission {
			errs = errors.AppendField(errs, "Patch", errors.Wrap(errors.ErrInput, "use toggles for boolean settings"))
		}
		for name, a := range map[string]lockbox.Address{
			"Patch.Admin":       m.Patch.Admin,
			"Patch.FeeWallet":   m.Patch.FeeWallet,
			"Patch.CountryList": m.Patch.CountryList,
		} {
			if a != nil {
				errs = errors.AppendField(errs, name, a.Validate())
			}
		}
	}
	return errs
}

// PatchConfig applies the message to the current configuration.
func (m *UpdateConfigMsg) PatchConfig(current gconf.OwnedConfig) error {
	conf, ok := current.(*Config)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T", current)
	}
	if m.Patch != nil {
		if err := gconf.Patch(conf, m.Patch); err != nil {
			return err
		}
	}
	conf.MintInfoPermissioned = m.MintInfoPermissioned.apply(conf.MintInfoPermissioned)
	conf.HasLinearEmission = m.HasLinearEmission.apply(conf.HasLinearEmission)
	return nil
}

// Keys returns the configuration key.
func (m *UpdateConfigMsg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return [][]byte{gconf.Key(ConfigPkg)}, nil
}

// CreateMintInfoMsg admits an asset. In permissioned mode only the
// configuration admin can admit assets.
type CreateMintInfoMsg struct {
	Payer lockbox.Address `protobuf:"bytes,1,opt,name=payer,proto3" json:"payer,omitempty"`
	Asset lockbox.Address `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset,omitempty"`
}

var _ lockbox.Msg = (*CreateMintInfoMsg)(nil)

func (m *CreateMintInfoMsg) Reset()         { *m = CreateMintInfoMsg{} }
func (m *CreateMintInfoMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMintInfoMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (CreateMintInfoMsg) Path() string { return pathCreateMintInfoMsg }

// Validate ensures the message is well formed.
func (m *CreateMintInfoMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	return errs
}

// Keys returns the mint info key.
func (m *CreateMintInfoMsg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	key, err := MintInfoKey(m.Asset)
	if err != nil {
		return nil, err
	}
	return [][]byte{key}, nil
}

// ReadKeys returns the configuration key.
func (m *CreateMintInfoMsg) ReadKeys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return [][]byte{gconf.Key(ConfigPkg)}, nil
}

// CreateLockerMsg deposits Amount of Asset into a new locker.
type CreateLockerMsg struct {
	Creator lockbox.Address `protobuf:"bytes,1,opt,name=creator,proto3" json:"creator,omitempty"`
	Owner   lockbox.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	// Funder pays the deposit and fees. Defaults to Creator.
	Funder     lockbox.Address  `protobuf:"bytes,3,opt,name=funder,proto3" json:"funder,omitempty"`
	Asset      lockbox.Address  `protobuf:"bytes,4,opt,name=asset,proto3" json:"asset,omitempty"`
	Amount     uint64           `protobuf:"varint,5,opt,name=amount,proto3" json:"amount,omitempty"`
	UnlockDate lockbox.UnixTime `protobuf:"varint,6,opt,name=unlock_date,json=unlockDate,proto3" json:"unlock_date,omitempty"`
	// StartEmission selects linear emission when not zero.
	StartEmission lockbox.UnixTime `protobuf:"varint,7,opt,name=start_emission,json=startEmission,proto3" json:"start_emission,omitempty"`
	CountryCode   string           `protobuf:"bytes,8,opt,name=country_code,json=countryCode,proto3" json:"country_code,omitempty"`
	PayInNative   bool             `protobuf:"varint,9,opt,name=pay_in_native,json=payInNative,proto3" json:"pay_in_native,omitempty"`
}

var _ lockbox.Msg = (*CreateLockerMsg)(nil)

func (m *CreateLockerMsg) Reset()         { *m = CreateLockerMsg{} }
func (m *CreateLockerMsg) String() string { return proto.CompactTextString(m) }
func (*CreateLockerMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (CreateLockerMsg) Path() string { return pathCreateLockerMsg }

// Validate ensures the message is well formed. Checks that depend on the
// current time or configuration are done by the handler.
func (m *CreateLockerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Creator", m.Creator.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if m.Funder != nil {
		errs = errors.AppendField(errs, "Funder", m.Funder.Validate())
	}
	errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "UnlockDate", validateUnlockDate(m.UnlockDate))
	if m.StartEmission < 0 {
		errs = errors.AppendField(errs, "StartEmission", errors.Wrap(ErrInvalidUnlockDate, "negative"))
	}
	errs = errors.AppendField(errs, "CountryCode", countrylist.ValidateCode(m.CountryCode))
	return errs
}

// FunderAddress returns the account paying for the locker.
func (m *CreateLockerMsg) FunderAddress() lockbox.Address {
	if m.Funder != nil {
		return m.Funder
	}
	return m.Creator
}

// Keys returns the creator counter, the new locker with its vault and
// all accounts paying or receiving the deposit and fees.
func (m *CreateLockerMsg) Keys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	n, err := newCreatorSequence(m.Creator).Latest(db)
	if err != nil {
		return nil, err
	}
	id, _, err := NewLockerAddress(m.Creator, n+1)
	if err != nil {
		return nil, err
	}
	vaultAuth, _, err := VaultAuthorityAddress(id)
	if err != nil {
		return nil, err
	}
	mintInfo, err := MintInfoKey(m.Asset)
	if err != nil {
		return nil, err
	}
	keys := [][]byte{creatorSequenceKey(m.Creator), LockerKey(id), mintInfo}
	accounts := []account{
		{vaultAuth, m.Asset},
		{m.FunderAddress(), m.Asset},
		{m.FunderAddress(), lockbox.NativeAsset},
	}
	accounts = append(accounts, feeAccounts(db, m.Asset, lockbox.NativeAsset)...)
	return accountKeys(keys, accounts...)
}

// ReadKeys returns the configuration and banlist keys.
func (m *CreateLockerMsg) ReadKeys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return configReadKeys(db, true)
}

// RelockMsg moves the unlock date of a locker forward.
type RelockMsg struct {
	LockerID   lockbox.Address  `protobuf:"bytes,1,opt,name=locker_id,json=lockerId,proto3" json:"locker_id,omitempty"`
	UnlockDate lockbox.UnixTime `protobuf:"varint,2,opt,name=unlock_date,json=unlockDate,proto3" json:"unlock_date,omitempty"`
}

var _ lockbox.Msg = (*RelockMsg)(nil)

func (m *RelockMsg) Reset()         { *m = RelockMsg{} }
func (m *RelockMsg) String() string { return proto.CompactTextString(m) }
func (*RelockMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (RelockMsg) Path() string { return pathRelockMsg }

// Validate ensures the message is well formed.
func (m *RelockMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "LockerID", m.LockerID.Validate())
	errs = errors.AppendField(errs, "UnlockDate", validateUnlockDate(m.UnlockDate))
	return errs
}

// Keys returns the locker key.
func (m *RelockMsg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return [][]byte{LockerKey(m.LockerID)}, nil
}

// TransferOwnershipMsg hands a locker over to a new owner.
type TransferOwnershipMsg struct {
	LockerID lockbox.Address `protobuf:"bytes,1,opt,name=locker_id,json=lockerId,proto3" json:"locker_id,omitempty"`
	NewOwner lockbox.Address `protobuf:"bytes,2,opt,name=new_owner,json=newOwner,proto3" json:"new_owner,omitempty"`
}

var _ lockbox.Msg = (*TransferOwnershipMsg)(nil)

func (m *TransferOwnershipMsg) Reset()         { *m = TransferOwnershipMsg{} }
func (m *TransferOwnershipMsg) String() string { return proto.CompactTextString(m) }
func (*TransferOwnershipMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (TransferOwnershipMsg) Path() string { return pathTransferOwnershipMsg }

// Validate ensures the message is well formed.
func (m *TransferOwnershipMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "LockerID", m.LockerID.Validate())
	errs = errors.AppendField(errs, "NewOwner", m.NewOwner.Validate())
	return errs
}

// Keys returns the locker key.
func (m *TransferOwnershipMsg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return [][]byte{LockerKey(m.LockerID)}, nil
}

// IncrementLockMsg adds funds to an existing locker. Anyone can fund a
// locker.
type IncrementLockMsg struct {
	LockerID lockbox.Address `protobuf:"bytes,1,opt,name=locker_id,json=lockerId,proto3" json:"locker_id,omitempty"`
	Funder   lockbox.Address `protobuf:"bytes,2,opt,name=funder,proto3" json:"funder,omitempty"`
	Amount   uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

var _ lockbox.Msg = (*IncrementLockMsg)(nil)

func (m *IncrementLockMsg) Reset()         { *m = IncrementLockMsg{} }
func (m *IncrementLockMsg) String() string { return proto.CompactTextString(m) }
func (*IncrementLockMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (IncrementLockMsg) Path() string { return pathIncrementLockMsg }

// Validate ensures the message is well formed.
func (m *IncrementLockMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "LockerID", m.LockerID.Validate())
	errs = errors.AppendField(errs, "Funder", m.Funder.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// Keys returns the locker, its vault and the funder account.
func (m *IncrementLockMsg) Keys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return lockerKeys(db, m.LockerID, func(l *Locker) []account {
		return append(feeAccounts(db, l.Asset), account{m.Funder, l.Asset})
	})
}

// ReadKeys returns the configuration and mint info keys.
func (m *IncrementLockMsg) ReadKeys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	keys, err := configReadKeys(db, false)
	if err != nil {
		return nil, err
	}
	var l Locker
	if err := NewLockerBucket().One(db, m.LockerID, &l); err != nil {
		return keys, nil
	}
	mi, err := MintInfoKey(l.Asset)
	if err != nil {
		return nil, err
	}
	return append(keys, mi), nil
}

// WithdrawFundsMsg releases funds from a locker to Target.
type WithdrawFundsMsg struct {
	LockerID lockbox.Address `protobuf:"bytes,1,opt,name=locker_id,json=lockerId,proto3" json:"locker_id,omitempty"`
	Amount   uint64          `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
	Target   lockbox.Address `protobuf:"bytes,3,opt,name=target,proto3" json:"target,omitempty"`
}

var _ lockbox.Msg = (*WithdrawFundsMsg)(nil)

func (m *WithdrawFundsMsg) Reset()         { *m = WithdrawFundsMsg{} }
func (m *WithdrawFundsMsg) String() string { return proto.CompactTextString(m) }
func (*WithdrawFundsMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (WithdrawFundsMsg) Path() string { return pathWithdrawFundsMsg }

// Validate ensures the message is well formed.
func (m *WithdrawFundsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "LockerID", m.LockerID.Validate())
	errs = errors.AppendField(errs, "Target", m.Target.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// Keys returns the locker, its vault and the target account.
func (m *WithdrawFundsMsg) Keys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return lockerKeys(db, m.LockerID, func(l *Locker) []account {
		return []account{{m.Target, l.Asset}}
	})
}

// SplitLockerMsg moves Amount of a locker into a new locker owned by
// NewOwner, with the same schedule.
type SplitLockerMsg struct {
	LockerID lockbox.Address `protobuf:"bytes,1,opt,name=locker_id,json=lockerId,proto3" json:"locker_id,omitempty"`
	Amount   uint64          `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
	NewOwner lockbox.Address `protobuf:"bytes,3,opt,name=new_owner,json=newOwner,proto3" json:"new_owner,omitempty"`
}

var _ lockbox.Msg = (*SplitLockerMsg)(nil)

func (m *SplitLockerMsg) Reset()         { *m = SplitLockerMsg{} }
func (m *SplitLockerMsg) String() string { return proto.CompactTextString(m) }
func (*SplitLockerMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (SplitLockerMsg) Path() string { return pathSplitLockerMsg }

// Validate ensures the message is well formed.
func (m *SplitLockerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "LockerID", m.LockerID.Validate())
	errs = errors.AppendField(errs, "NewOwner", m.NewOwner.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// Keys returns both lockers and both vaults.
func (m *SplitLockerMsg) Keys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	var l Locker
	switch err := NewLockerBucket().One(db, m.LockerID, &l); {
	case errors.ErrNotFound.Is(err):
		return [][]byte{LockerKey(m.LockerID)}, nil
	case err != nil:
		return nil, err
	}
	child, _, err := SplitAddress(l.ID, l.CurrentUnlockDate, m.Amount)
	if err != nil {
		return nil, err
	}
	childAuth, _, err := VaultAuthorityAddress(child)
	if err != nil {
		return nil, err
	}
	return accountKeys([][]byte{LockerKey(l.ID), LockerKey(child)},
		account{l.VaultAuthority, l.Asset},
		account{childAuth, l.Asset},
	)
}

// CloseLockerMsg removes a locker with an empty vault.
type CloseLockerMsg struct {
	LockerID lockbox.Address `protobuf:"bytes,1,opt,name=locker_id,json=lockerId,proto3" json:"locker_id,omitempty"`
	// Target receives any balance left in the vault. The owner does
	// when it is not set.
	Target lockbox.Address `protobuf:"bytes,2,opt,name=target,proto3" json:"target,omitempty"`
}

var _ lockbox.Msg = (*CloseLockerMsg)(nil)

func (m *CloseLockerMsg) Reset()         { *m = CloseLockerMsg{} }
func (m *CloseLockerMsg) String() string { return proto.CompactTextString(m) }
func (*CloseLockerMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (CloseLockerMsg) Path() string { return pathCloseLockerMsg }

// Validate ensures the message is well formed.
func (m *CloseLockerMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "LockerID", m.LockerID.Validate())
	if m.Target != nil {
		errs = errors.AppendField(errs, "Target", m.Target.Validate())
	}
	return errs
}

// Keys returns the locker, its vault and the sweep target account.
func (m *CloseLockerMsg) Keys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return lockerKeys(db, m.LockerID, func(l *Locker) []account {
		return []account{{m.sweepTarget(l), l.Asset}}
	})
}

func (m *CloseLockerMsg) sweepTarget(l *Locker) lockbox.Address {
	if m.Target != nil {
		return m.Target
	}
	return l.Owner
}

func validateUnlockDate(t lockbox.UnixTime) error {
	switch {
	case t <= 0:
		return errors.Wrap(ErrInvalidUnlockDate, "required")
	case t >= lockbox.MaxUnixTime:
		return errors.Wrap(ErrInvalidUnlockDate, "expected seconds, not milliseconds")
	}
	return nil
}

type account struct {
	owner, asset lockbox.Address
}

func accountKeys(keys [][]byte, accounts ...account) ([][]byte, error) {
	for _, a := range accounts {
		k, err := cash.AccountKey(a.owner, a.asset)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// feeAccounts returns the fee wallet accounts for the given assets. None
// are returned before the configuration exists.
func feeAccounts(db lockbox.ReadOnlyKVStore, assets ...lockbox.Address) []account {
	conf, err := loadConf(db)
	if err != nil {
		return nil
	}
	accounts := make([]account, 0, len(assets))
	for _, a := range assets {
		accounts = append(accounts, account{conf.FeeWallet, a})
	}
	return accounts
}

// lockerKeys returns the keys of the locker, its vault and the accounts
// returned by more. Only the locker key is returned if it does not exist.
func lockerKeys(db lockbox.ReadOnlyKVStore, id lockbox.Address, more func(*Locker) []account) ([][]byte, error) {
	var l Locker
	switch err := NewLockerBucket().One(db, id, &l); {
	case errors.ErrNotFound.Is(err):
		return [][]byte{LockerKey(id)}, nil
	case err != nil:
		return nil, err
	}
	accounts := []account{{l.VaultAuthority, l.Asset}}
	if more != nil {
		accounts = append(accounts, more(&l)...)
	}
	return accountKeys([][]byte{LockerKey(id)}, accounts...)
}

func configReadKeys(db lockbox.ReadOnlyKVStore, withBanlist bool) ([][]byte, error) {
	keys := [][]byte{gconf.Key(ConfigPkg)}
	if !withBanlist {
		return keys, nil
	}
	conf, err := loadConf(db)
	if err != nil {
		return keys, nil
	}
	return append(keys, countrylist.BanlistKey(conf.CountryList)), nil
}
