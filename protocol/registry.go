package protocol

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/x/cash"
	"github.com/lockbox-labs/lockbox/x/countrylist"
	"github.com/lockbox-labs/lockbox/x/locker"
)

// InitCountryList creates a banlist administrated by admin and returns
// its address.
func (p *Protocol) InitCountryList(ctx lockbox.Context, admin crypto.Signer, codes []string) (lockbox.Address, error) {
	data, err := p.deliver(ctx, &countrylist.CreateMsg{Admin: addressOf(admin), Countries: codes}, admin)
	if err != nil {
		return nil, err
	}
	return data.(lockbox.Address), nil
}

// BanCountry adds codes to the banlist. Only the banlist admin can ban.
func (p *Protocol) BanCountry(ctx lockbox.Context, admin crypto.Signer, banlist lockbox.Address, codes []string) (*countrylist.Banlist, error) {
	data, err := p.deliver(ctx, &countrylist.BanMsg{Banlist: banlist, Countries: codes}, admin)
	if err != nil {
		return nil, err
	}
	return data.(*countrylist.Banlist), nil
}

// Banlist returns the banlist stored at addr.
func (p *Protocol) Banlist(addr lockbox.Address) (*countrylist.Banlist, error) {
	return p.lists.Banlist(p.engine.Store(), addr)
}

// IsBanned returns true if code is banned by the banlist of the
// configuration.
func (p *Protocol) IsBanned(code string) (bool, error) {
	conf, err := p.Config()
	if err != nil {
		return false, err
	}
	return p.lists.IsBanned(p.engine.Store(), conf.CountryList, code)
}

// InitConfig stores the protocol configuration. It fails with
// ErrAlreadyInitialized if it exists.
func (p *Protocol) InitConfig(ctx lockbox.Context, admin crypto.Signer, conf *locker.Config) (*locker.Config, error) {
	data, err := p.deliver(ctx, &locker.InitConfigMsg{Config: conf}, admin)
	if err != nil {
		return nil, err
	}
	return data.(*locker.Config), nil
}

// UpdateConfig patches the configuration. Only its admin can update it.
func (p *Protocol) UpdateConfig(ctx lockbox.Context, admin crypto.Signer, msg *locker.UpdateConfigMsg) (*locker.Config, error) {
	data, err := p.deliver(ctx, msg, admin)
	if err != nil {
		return nil, err
	}
	conf, ok := data.(*locker.Config)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", data)
	}
	return conf, nil
}

// Config returns the protocol configuration.
func (p *Protocol) Config() (*locker.Config, error) {
	return locker.LoadConfig(p.engine.Store())
}

// CreateMintInfo admits asset. Admitting an admitted asset returns the
// existing record.
func (p *Protocol) CreateMintInfo(ctx lockbox.Context, payer crypto.Signer, asset lockbox.Address) (*locker.MintInfo, error) {
	data, err := p.deliver(ctx, &locker.CreateMintInfoMsg{Payer: addressOf(payer), Asset: asset}, payer)
	if err != nil {
		return nil, err
	}
	return data.(*locker.MintInfo), nil
}

// MintInfo returns the admission record of asset.
func (p *Protocol) MintInfo(asset lockbox.Address) (*locker.MintInfo, error) {
	return locker.LoadMintInfo(p.engine.Store(), asset)
}

// Send moves amount of asset from the signer to dest.
func (p *Protocol) Send(ctx lockbox.Context, from crypto.Signer, dest, asset lockbox.Address, amount uint64) error {
	_, err := p.deliver(ctx, &cash.SendMsg{
		Source:      addressOf(from),
		Destination: dest,
		Asset:       asset,
		Amount:      amount,
	}, from)
	return err
}

// Balance returns how much of asset owner holds.
func (p *Protocol) Balance(owner, asset lockbox.Address) (uint64, error) {
	return p.bank.Balance(p.engine.Store(), owner, asset)
}
