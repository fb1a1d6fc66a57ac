package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the auth.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to GetMsg().Marshal() when there is no other content.
	GetSignBytes() ([]byte, error)
	// Signatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a single signature with the nonce it was made with.
type StdSignature struct {
	Pubkey    crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature []byte           `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
	Sequence  int64            `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence"`
}

func (s *StdSignature) Reset()         { *s = StdSignature{} }
func (s *StdSignature) String() string { return proto.CompactTextString(s) }
func (*StdSignature) ProtoMessage()    {}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := s.Pubkey.Address().Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// SignerKeys returns the store keys of all signers of the transaction.
func SignerKeys(tx SignedTx) [][]byte {
	sigs := tx.GetSignatures()
	keys := make([][]byte, 0, len(sigs))
	for _, s := range sigs {
		keys = append(keys, UserKey(s.Pubkey.Address()))
	}
	return keys
}

// SignBytes returns the protobuf encoding of a message, used as the
// payload of all signatures.
func SignBytes(msg lockbox.Msg) ([]byte, error) {
	raw, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "cannot marshal %T: %s", msg, err)
	}
	return raw, nil
}
