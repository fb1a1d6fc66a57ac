package locker

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/orm"
	"github.com/lockbox-labs/lockbox/x/countrylist"
)

const (
	// DerivationNamespace is used for all addresses derived by this
	// extension.
	DerivationNamespace = "locker"

	lockerBucketName   = "locker"
	mintInfoBucketName = "mintinfo"
)

var (
	seedNew  = []byte("new")
	seedMint = []byte("mint")
)

// MintInfo tracks the admission of a single asset.
type MintInfo struct {
	Asset lockbox.Address `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	// Bump of the mint info address derivation.
	Bump uint32 `protobuf:"varint,2,opt,name=bump,proto3" json:"bump"`
	// FeePaid is set once the flat admission fee was paid for the asset.
	FeePaid bool `protobuf:"varint,3,opt,name=fee_paid,json=feePaid,proto3" json:"fee_paid"`
}

var _ orm.Model = (*MintInfo)(nil)

func (m *MintInfo) Reset()         { *m = MintInfo{} }
func (m *MintInfo) String() string { return proto.CompactTextString(m) }
func (*MintInfo) ProtoMessage()    {}

// Validate ensures the mint info is well formed.
func (m *MintInfo) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	if m.Bump > 255 {
		errs = errors.AppendField(errs, "Bump", errors.ErrInput)
	}
	return errs
}

// Locker is a custody record. Its vault account holds the locked funds.
type Locker struct {
	ID lockbox.Address `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	// Bump of the ID derivation.
	Bump    uint32          `protobuf:"varint,2,opt,name=bump,proto3" json:"bump"`
	Creator lockbox.Address `protobuf:"bytes,3,opt,name=creator,proto3" json:"creator,omitempty"`
	Owner   lockbox.Address `protobuf:"bytes,4,opt,name=owner,proto3" json:"owner,omitempty"`
	Asset   lockbox.Address `protobuf:"bytes,5,opt,name=asset,proto3" json:"asset,omitempty"`
	// Vault is the address of the cash account holding the funds.
	Vault lockbox.Address `protobuf:"bytes,6,opt,name=vault,proto3" json:"vault,omitempty"`
	// VaultAuthority owns the vault account. It is derived from ID and
	// VaultBump.
	VaultAuthority    lockbox.Address  `protobuf:"bytes,7,opt,name=vault_authority,json=vaultAuthority,proto3" json:"vault_authority,omitempty"`
	VaultBump         uint32           `protobuf:"varint,8,opt,name=vault_bump,json=vaultBump,proto3" json:"vault_bump"`
	DepositedAmount   uint64           `protobuf:"varint,9,opt,name=deposited_amount,json=depositedAmount,proto3" json:"deposited_amount"`
	WithdrawnAmount   uint64           `protobuf:"varint,10,opt,name=withdrawn_amount,json=withdrawnAmount,proto3" json:"withdrawn_amount"`
	CurrentUnlockDate lockbox.UnixTime `protobuf:"varint,11,opt,name=current_unlock_date,json=currentUnlockDate,proto3" json:"current_unlock_date"`
	// Linear is set when funds are released by linear emission starting
	// at StartEmission. Otherwise StartEmission is zero.
	Linear        bool             `protobuf:"varint,12,opt,name=linear,proto3" json:"linear"`
	StartEmission lockbox.UnixTime `protobuf:"varint,13,opt,name=start_emission,json=startEmission,proto3" json:"start_emission,omitempty"`
	CountryCode   string           `protobuf:"bytes,14,opt,name=country_code,json=countryCode,proto3" json:"country_code,omitempty"`
	// ParentID is set for lockers created by a split.
	ParentID lockbox.Address `protobuf:"bytes,15,opt,name=parent_id,json=parentId,proto3" json:"parent_id,omitempty"`
}

var _ orm.Model = (*Locker)(nil)

func (m *Locker) Reset()         { *m = Locker{} }
func (m *Locker) String() string { return proto.CompactTextString(m) }
func (*Locker) ProtoMessage()    {}

// Validate ensures the locker invariants hold.
func (m *Locker) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "ID", m.ID.Validate())
	errs = errors.AppendField(errs, "Creator", m.Creator.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	errs = errors.AppendField(errs, "VaultAuthority", m.VaultAuthority.Validate())
	if m.Bump > 255 {
		errs = errors.AppendField(errs, "Bump", errors.ErrInput)
	}
	if m.VaultBump > 255 {
		errs = errors.AppendField(errs, "VaultBump", errors.ErrInput)
	}
	if m.WithdrawnAmount > m.DepositedAmount {
		errs = errors.AppendField(errs, "WithdrawnAmount",
			errors.Wrap(errors.ErrState, "more than deposited"))
	}
	if err := m.CurrentUnlockDate.Validate(); err != nil {
		errs = errors.AppendField(errs, "CurrentUnlockDate", errors.Wrap(ErrInvalidUnlockDate, err.Error()))
	}
	switch {
	case m.Linear && m.StartEmission > m.CurrentUnlockDate:
		errs = errors.AppendField(errs, "StartEmission",
			errors.Wrap(ErrInvalidUnlockDate, "emission starts after unlock"))
	case !m.Linear && m.StartEmission != 0:
		errs = errors.AppendField(errs, "StartEmission",
			errors.Wrap(errors.ErrState, "set for a cliff locker"))
	}
	errs = errors.AppendField(errs, "CountryCode", countrylist.ValidateCode(m.CountryCode))
	if m.ParentID != nil {
		errs = errors.AppendField(errs, "ParentID", m.ParentID.Validate())
	}
	return errs
}

// Remaining returns the amount deposited and not yet withdrawn.
func (m *Locker) Remaining() uint64 {
	return m.DepositedAmount - m.WithdrawnAmount
}

// NewLockerAddress returns the identity of the n-th locker created by
// creator, counting from one.
func NewLockerAddress(creator lockbox.Address, n uint64) (lockbox.Address, uint8, error) {
	return lockbox.DeriveAddress(DerivationNamespace, creator, seedNew, lockbox.Uint64Seed(n))
}

// SplitAddress returns the identity of the locker created by splitting
// amount out of parent while parent unlocks at unlock. Repeating the
// same split targets the same child.
func SplitAddress(parent lockbox.Address, unlock lockbox.UnixTime, amount uint64) (lockbox.Address, uint8, error) {
	return lockbox.DeriveAddress(DerivationNamespace, parent, lockbox.Uint64Seed(uint64(unlock)), lockbox.Uint64Seed(amount))
}

// VaultAuthorityAddress returns the address owning the vault of the
// locker with the given identity.
func VaultAuthorityAddress(id lockbox.Address) (lockbox.Address, uint8, error) {
	return lockbox.DeriveAddress(DerivationNamespace, id)
}

// MintInfoAddress returns the address the mint info of asset is stored
// under.
func MintInfoAddress(asset lockbox.Address) (lockbox.Address, uint8, error) {
	return lockbox.DeriveAddress(DerivationNamespace, seedMint, asset)
}

// NewLockerBucket returns the bucket of lockers, indexed by owner and
// creator.
func NewLockerBucket() orm.ModelBucket {
	return orm.NewModelBucket(lockerBucketName, &Locker{},
		orm.WithIndex("owner", ownerIndexer),
		orm.WithIndex("creator", creatorIndexer))
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	l, ok := m.(*Locker)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return l.Owner, nil
}

func creatorIndexer(m orm.Model) ([]byte, error) {
	l, ok := m.(*Locker)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return l.Creator, nil
}

// NewMintInfoBucket returns the bucket of mint infos, keyed by
// MintInfoAddress.
func NewMintInfoBucket() orm.ModelBucket {
	return orm.NewModelBucket(mintInfoBucketName, &MintInfo{})
}

func newCreatorSequence(creator lockbox.Address) orm.Sequence {
	return orm.NewSequence(lockerBucketName, "creator").Scoped(creator)
}

// LockerKey returns the store key of a locker.
func LockerKey(id lockbox.Address) []byte {
	return append([]byte(lockerBucketName+":"), id...)
}

// MintInfoKey returns the store key of the mint info of asset.
func MintInfoKey(asset lockbox.Address) ([]byte, error) {
	addr, _, err := MintInfoAddress(asset)
	if err != nil {
		return nil, err
	}
	return append([]byte(mintInfoBucketName+":"), addr...), nil
}

func creatorSequenceKey(creator lockbox.Address) []byte {
	return append([]byte("_s."+lockerBucketName+":creator:"), creator...)
}
