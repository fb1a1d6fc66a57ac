package locker

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/gconf"
)

const optMintInfo = "mintinfo"

// GenesisMintInfo admits an asset from the genesis file.
type GenesisMintInfo struct {
	Asset   lockbox.Address `json:"asset"`
	FeePaid bool            `json:"fee_paid"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbox.Initializer = Initializer{}

// FromGenesis stores the configuration found under conf.locker and
// admits the assets listed under mintinfo.
func (Initializer) FromGenesis(opts lockbox.Options, db lockbox.KVStore) error {
	if err := gconf.InitConfig(db, opts, ConfigPkg, &Config{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	var infos []GenesisMintInfo
	if err := opts.ReadOptions(optMintInfo, &infos); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewMintInfoBucket()
	for i, info := range infos {
		addr, bump, err := MintInfoAddress(info.Asset)
		if err != nil {
			return errors.Wrapf(err, "mint info %d", i)
		}
		mi := MintInfo{Asset: info.Asset, Bump: uint32(bump), FeePaid: info.FeePaid}
		if err := bucket.Create(db, addr, &mi); err != nil {
			return errors.Wrapf(err, "mint info %d", i)
		}
	}
	return nil
}
