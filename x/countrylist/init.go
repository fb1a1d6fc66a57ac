package countrylist

import (
	"context"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

const optKey = "countrylist"

// GenesisBanlist is a banlist declared in the genesis file. Banlists of
// the same admin get consecutive addresses, see BanlistAddress.
type GenesisBanlist struct {
	Admin     lockbox.Address `json:"admin"`
	Countries []string        `json:"countries"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

// FromGenesis will parse initial banlists from genesis
// and save them to the database
func (Initializer) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	var lists []GenesisBanlist
	if err := opts.ReadOptions(optKey, &lists); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ctrl := NewController(nil)
	for i, l := range lists {
		if err := l.Admin.Validate(); err != nil {
			return errors.Wrapf(err, "banlist %d admin", i)
		}
		if _, _, err := ctrl.Create(context.Background(), kv, l.Admin, l.Countries); err != nil {
			return errors.Wrapf(err, "banlist %d", i)
		}
	}
	return nil
}
