package countrylist

import (
	"regexp"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/orm"
)

const (
	// BucketName is where we store the banlists
	BucketName = "countrylist"

	// DerivationNamespace separates banlist addresses from any other
	// derived address.
	DerivationNamespace = "countrylist"

	// MaxCountries is the upper limit of codes a single banlist holds.
	MaxCountries = 256
)

var isCountryCode = regexp.MustCompile(`^[A-Z]{2}$`).MatchString

// ValidateCode returns ErrInvalidCountry unless code is two upper case
// letters.
func ValidateCode(code string) error {
	if !isCountryCode(code) {
		return errors.Wrapf(ErrInvalidCountry, "%q", code)
	}
	return nil
}

// Banlist is an append only set of banned country codes.
type Banlist struct {
	Admin lockbox.Address `protobuf:"bytes,1,opt,name=admin,proto3" json:"admin,omitempty"`
	// Countries are kept sorted and unique.
	Countries []string `protobuf:"bytes,2,rep,name=countries,proto3" json:"countries"`
	Bump      uint32   `protobuf:"varint,3,opt,name=bump,proto3" json:"bump"`
	// Seq is the per admin counter the address was derived from.
	Seq uint64 `protobuf:"varint,4,opt,name=seq,proto3" json:"seq"`
}

var _ orm.Model = (*Banlist)(nil)

func (m *Banlist) Reset()         { *m = Banlist{} }
func (m *Banlist) String() string { return proto.CompactTextString(m) }
func (*Banlist) ProtoMessage()    {}

// Validate ensures the banlist is well formed.
func (m *Banlist) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	if len(m.Countries) > MaxCountries {
		errs = errors.AppendField(errs, "Countries", errors.Wrapf(errors.ErrInput, "more than %d", MaxCountries))
	}
	for i, c := range m.Countries {
		if err := ValidateCode(c); err != nil {
			errs = errors.AppendField(errs, "Countries", err)
			continue
		}
		if i > 0 && m.Countries[i-1] >= c {
			errs = errors.AppendField(errs, "Countries", errors.Wrap(errors.ErrInput, "not sorted"))
		}
	}
	if m.Bump > 255 {
		errs = errors.AppendField(errs, "Bump", errors.ErrInput)
	}
	return errs
}

// IsBanned returns true if code was banned.
func (m *Banlist) IsBanned(code string) bool {
	i := sort.SearchStrings(m.Countries, code)
	return i < len(m.Countries) && m.Countries[i] == code
}

// Ban adds codes to the list, keeping it sorted. Codes that are already
// banned are ignored.
func (m *Banlist) Ban(codes ...string) error {
	for _, c := range codes {
		if err := ValidateCode(c); err != nil {
			return err
		}
		i := sort.SearchStrings(m.Countries, c)
		if i < len(m.Countries) && m.Countries[i] == c {
			continue
		}
		m.Countries = append(m.Countries, "")
		copy(m.Countries[i+1:], m.Countries[i:])
		m.Countries[i] = c
	}
	if len(m.Countries) > MaxCountries {
		return errors.Wrapf(errors.ErrInput, "more than %d countries", MaxCountries)
	}
	return nil
}

// BanlistAddress returns the address of the n-th banlist created by admin,
// counting from one.
func BanlistAddress(admin lockbox.Address, n uint64) (lockbox.Address, uint8, error) {
	return lockbox.DeriveAddress(DerivationNamespace, admin, lockbox.Uint64Seed(n))
}

// NewBucket returns the bucket of banlists, indexed by admin.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Banlist{},
		orm.WithIndex("admin", adminIndexer))
}

func adminIndexer(m orm.Model) ([]byte, error) {
	b, ok := m.(*Banlist)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return b.Admin, nil
}

func newAdminSequence(admin lockbox.Address) orm.Sequence {
	return orm.NewSequence(BucketName, "id").Scoped(admin)
}

// SequenceKey returns the store key of the counter used to derive the
// banlists of admin.
func SequenceKey(admin lockbox.Address) []byte {
	return append([]byte("_s."+BucketName+":id:"), admin...)
}
