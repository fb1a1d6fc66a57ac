package cash

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
type GenesisAccount struct {
	Owner   lockbox.Address `json:"owner"`
	Asset   lockbox.Address `json:"asset"`
	Balance uint64          `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	// Issuing does not need any authentication.
	control := NewController(nil)
	for i, acct := range accts {
		if err := acct.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "account %d owner", i)
		}
		if acct.Asset == nil {
			acct.Asset = lockbox.NativeAsset
		}
		if err := control.Issue(kv, acct.Asset, acct.Owner, acct.Balance); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
