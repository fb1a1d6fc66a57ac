package locker

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/gconf"
)

// ConfigPkg is the configuration namespace of this extension.
const ConfigPkg = "locker"

// Config holds the protocol wide settings. It is created once and can
// be changed only by its admin.
type Config struct {
	Admin     lockbox.Address `protobuf:"bytes,1,opt,name=admin,proto3" json:"admin,omitempty"`
	FeeWallet lockbox.Address `protobuf:"bytes,2,opt,name=fee_wallet,json=feeWallet,proto3" json:"fee_wallet,omitempty"`
	// FeeFlatAmount is charged in the native asset.
	FeeFlatAmount        uint64          `protobuf:"varint,3,opt,name=fee_flat_amount,json=feeFlatAmount,proto3" json:"fee_flat_amount,omitempty"`
	FeeTokenNumerator    uint64          `protobuf:"varint,4,opt,name=fee_token_numerator,json=feeTokenNumerator,proto3" json:"fee_token_numerator,omitempty"`
	FeeTokenDenominator  uint64          `protobuf:"varint,5,opt,name=fee_token_denominator,json=feeTokenDenominator,proto3" json:"fee_token_denominator,omitempty"`
	MintInfoPermissioned bool            `protobuf:"varint,6,opt,name=mint_info_permissioned,json=mintInfoPermissioned,proto3" json:"mint_info_permissioned,omitempty"`
	HasLinearEmission    bool            `protobuf:"varint,7,opt,name=has_linear_emission,json=hasLinearEmission,proto3" json:"has_linear_emission,omitempty"`
	CountryList          lockbox.Address `protobuf:"bytes,8,opt,name=country_list,json=countryList,proto3" json:"country_list,omitempty"`
}

var _ gconf.OwnedConfig = (*Config)(nil)

func (m *Config) Reset()         { *m = Config{} }
func (m *Config) String() string { return proto.CompactTextString(m) }
func (*Config) ProtoMessage()    {}

// GetAdmin returns the address allowed to update the configuration.
func (m *Config) GetAdmin() lockbox.Address {
	return m.Admin
}

// Validate ensures the configuration is consistent.
func (m *Config) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Admin", m.Admin.Validate())
	errs = errors.AppendField(errs, "FeeWallet", m.FeeWallet.Validate())
	errs = errors.AppendField(errs, "CountryList", m.CountryList.Validate())
	if m.FeeTokenDenominator == 0 {
		errs = errors.AppendField(errs, "FeeTokenDenominator", errors.ErrAmount)
	} else if m.FeeTokenNumerator >= m.FeeTokenDenominator {
		errs = errors.AppendField(errs, "FeeTokenNumerator",
			errors.Wrap(errors.ErrAmount, "fee must be below 100%"))
	}
	return errs
}

func loadConf(db gconf.ReadStore) (*Config, error) {
	var conf Config
	if err := gconf.Load(db, ConfigPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "locker configuration")
	}
	return &conf, nil
}

// Toggle changes a boolean setting. The zero value keeps the current
// setting.
type Toggle int32

const (
	ToggleUnchanged Toggle = 0
	ToggleEnable    Toggle = 1
	ToggleDisable   Toggle = 2
)

// Validate returns an error for unknown values.
func (t Toggle) Validate() error {
	switch t {
	case ToggleUnchanged, ToggleEnable, ToggleDisable:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "toggle %d", t)
}

func (t Toggle) apply(cur bool) bool {
	switch t {
	case ToggleEnable:
		return true
	case ToggleDisable:
		return false
	}
	return cur
}
