package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize = 128
)

// SendMsg moves value between two owners.
type SendMsg struct {
	Source      lockbox.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Destination lockbox.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination,omitempty"`
	Asset       lockbox.Address `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset,omitempty"`
	Amount      uint64          `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string          `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ lockbox.Msg = (*SendMsg)(nil)

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible.
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInput)
	}
	return errs
}

// Keys returns the accounts touched by the message.
func (m *SendMsg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	src, err := AccountKey(m.Source, m.Asset)
	if err != nil {
		return nil, err
	}
	dst, err := AccountKey(m.Destination, m.Asset)
	if err != nil {
		return nil, err
	}
	return [][]byte{src, dst}, nil
}
