package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue keeps nonces representable as a float64 by clients.
const maxSequenceValue = (1 << 53) - 1

// UserData stores the replay protection state of a signer.
type UserData struct {
	Pubkey   crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64            `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Reset()         { *u = UserData{} }
func (u *UserData) String() string { return proto.CompactTextString(u) }
func (*UserData) ProtoMessage()    {}

// Validate ensures the stored state is consistent.
func (u *UserData) Validate() error {
	var errs error
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Address().Validate())
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns the bucket of user data, keyed by signer address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// UserKey returns the store key holding the state of the signer. It is
// exposed so callers can lock it before verifying signatures.
func UserKey(signer lockbox.Address) []byte {
	return append([]byte(BucketName+":"), signer...)
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing. If the signer was never seen, counting starts with zero.
func NextNonce(db lockbox.ReadOnlyKVStore, signer lockbox.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
