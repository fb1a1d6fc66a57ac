package countrylist

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

const (
	pathCreateMsg = "countrylist/create"
	pathBanMsg    = "countrylist/ban"
)

// CreateMsg creates a new banlist administrated by the signer.
type CreateMsg struct {
	Admin     lockbox.Address `protobuf:"bytes,1,opt,name=admin,proto3" json:"admin,omitempty"`
	Countries []string        `protobuf:"bytes,2,rep,name=countries,proto3" json:"countries,omitempty"`
}

var _ lockbox.Msg = (*CreateMsg)(nil)

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (CreateMsg) Path() string { return pathCreateMsg }

// Validate ensures the message is well formed.
func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	errs = errors.AppendField(errs, "Countries", validateCodes(m.Countries))
	return errs
}

// Keys returns the admin counter and the address of the created banlist.
func (m *CreateMsg) Keys(db lockbox.ReadOnlyKVStore) ([][]byte, error) {
	addr, err := NextAddress(db, m.Admin)
	if err != nil {
		return nil, err
	}
	return [][]byte{SequenceKey(m.Admin), BanlistKey(addr)}, nil
}

// BanMsg appends country codes to an existing banlist.
type BanMsg struct {
	Banlist   lockbox.Address `protobuf:"bytes,1,opt,name=banlist,proto3" json:"banlist,omitempty"`
	Countries []string        `protobuf:"bytes,2,rep,name=countries,proto3" json:"countries,omitempty"`
}

var _ lockbox.Msg = (*BanMsg)(nil)

func (m *BanMsg) Reset()         { *m = BanMsg{} }
func (m *BanMsg) String() string { return proto.CompactTextString(m) }
func (*BanMsg) ProtoMessage()    {}

// Path returns the routing path for this message.
func (BanMsg) Path() string { return pathBanMsg }

// Validate ensures the message is well formed.
func (m *BanMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Banlist", m.Banlist.Validate())
	if len(m.Countries) == 0 {
		errs = errors.AppendField(errs, "Countries", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Countries", validateCodes(m.Countries))
	}
	return errs
}

// Keys returns the modified banlist.
func (m *BanMsg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return [][]byte{BanlistKey(m.Banlist)}, nil
}

func validateCodes(codes []string) error {
	if len(codes) > MaxCountries {
		return errors.Wrapf(errors.ErrInput, "more than %d", MaxCountries)
	}
	for _, c := range codes {
		if err := ValidateCode(c); err != nil {
			return err
		}
	}
	return nil
}

// BanlistKey returns the store key of the banlist at addr.
func BanlistKey(addr lockbox.Address) []byte {
	return append([]byte(BucketName+":"), addr...)
}
