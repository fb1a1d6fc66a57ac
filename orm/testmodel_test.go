package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox/errors"
)

// vault is a minimal model used by the tests of this package.
type vault struct {
	Owner  []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *vault) Reset()         { *m = vault{} }
func (m *vault) String() string { return proto.CompactTextString(m) }
func (*vault) ProtoMessage()    {}

func (m *vault) Validate() error {
	if len(m.Owner) == 0 {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return nil
}

// other is a model of a different type, never accepted by a vault bucket.
type other struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *other) Reset()         { *m = other{} }
func (m *other) String() string { return proto.CompactTextString(m) }
func (*other) ProtoMessage()    {}
func (*other) Validate() error  { return nil }

func ownerIndexer(m Model) ([]byte, error) {
	v, ok := m.(*vault)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return v.Owner, nil
}
