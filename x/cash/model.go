package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/orm"
)

const (
	// BucketName is where we store the accounts
	BucketName = "cash"

	// DerivationNamespace separates account addresses from any other
	// derived address.
	DerivationNamespace = "cash"
)

// Account holds the balance of a single asset for its owner.
type Account struct {
	Owner   lockbox.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Asset   lockbox.Address `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset,omitempty"`
	Balance uint64          `protobuf:"varint,3,opt,name=balance,proto3" json:"balance"`
	// Bump of the account address derivation.
	Bump uint32 `protobuf:"varint,4,opt,name=bump,proto3" json:"bump"`
}

var _ orm.Model = (*Account)(nil)

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

// Validate ensures the account is well formed.
func (m *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	if m.Bump > 255 {
		errs = errors.AppendField(errs, "Bump", errors.ErrInput)
	}
	return errs
}

// AccountAddress returns the address of the account holding asset for
// owner, together with the derivation bump.
func AccountAddress(owner, asset lockbox.Address) (lockbox.Address, uint8, error) {
	return lockbox.DeriveAddress(DerivationNamespace, owner, asset)
}

// AccountKey returns the store key of the account holding asset for
// owner.
func AccountKey(owner, asset lockbox.Address) ([]byte, error) {
	addr, _, err := AccountAddress(owner, asset)
	if err != nil {
		return nil, err
	}
	return append([]byte(BucketName+":"), addr...), nil
}

// NewBucket returns a bucket for accounts, indexed by owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Account{},
		orm.WithIndex("owner", ownerIndexer))
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	acc, ok := m.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return acc.Owner, nil
}
