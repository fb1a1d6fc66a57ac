package countrylist

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/orm"
	"github.com/lockbox-labs/lockbox/x"
)

// Controller gives other extensions read access to banlists.
type Controller interface {
	// Banlist returns the banlist stored under addr.
	Banlist(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*Banlist, error)
	// IsBanned returns true if the banlist at addr contains code.
	IsBanned(db lockbox.ReadOnlyKVStore, addr lockbox.Address, code string) (bool, error)
}

// BaseController manages banlists.
type BaseController struct {
	bucket orm.ModelBucket
	auth   x.Authenticator
}

var _ Controller = BaseController{}

// NewController returns a controller that authorizes admin operations
// with auth.
func NewController(auth x.Authenticator) BaseController {
	return BaseController{
		bucket: NewBucket(),
		auth:   auth,
	}
}

// Banlist implements Controller.
func (c BaseController) Banlist(db lockbox.ReadOnlyKVStore, addr lockbox.Address) (*Banlist, error) {
	var b Banlist
	if err := c.bucket.One(db, addr, &b); err != nil {
		return nil, errors.Wrapf(err, "banlist %s", addr)
	}
	return &b, nil
}

// IsBanned implements Controller.
func (c BaseController) IsBanned(db lockbox.ReadOnlyKVStore, addr lockbox.Address, code string) (bool, error) {
	if err := ValidateCode(code); err != nil {
		return false, err
	}
	b, err := c.Banlist(db, addr)
	if err != nil {
		return false, err
	}
	return b.IsBanned(code), nil
}

// Create stores a new banlist owned by admin and returns its address.
func (c BaseController) Create(ctx lockbox.Context, db lockbox.KVStore, admin lockbox.Address, codes []string) (lockbox.Address, *Banlist, error) {
	if c.auth != nil && !c.auth.HasAddress(ctx, admin) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	n, err := newAdminSequence(admin).NextInt(db)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sequence")
	}
	addr, bump, err := BanlistAddress(admin, n)
	if err != nil {
		return nil, nil, err
	}
	b := &Banlist{Admin: admin, Bump: uint32(bump), Seq: n}
	if err := b.Ban(codes...); err != nil {
		return nil, nil, err
	}
	if err := c.bucket.Create(db, addr, b); err != nil {
		return nil, nil, errors.Wrap(err, "cannot store banlist")
	}
	return addr, b, nil
}

// Ban adds codes to the banlist at addr. Only the banlist admin can do
// it.
func (c BaseController) Ban(ctx lockbox.Context, db lockbox.KVStore, addr lockbox.Address, codes []string) (*Banlist, error) {
	b, err := c.Banlist(db, addr)
	if err != nil {
		return nil, err
	}
	if !c.auth.HasAddress(ctx, b.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	if err := b.Ban(codes...); err != nil {
		return nil, err
	}
	if err := c.bucket.Put(db, addr, b); err != nil {
		return nil, errors.Wrap(err, "cannot store banlist")
	}
	return b, nil
}

// NextAddress returns the address the next banlist created by admin will
// be stored under.
func NextAddress(db lockbox.ReadOnlyKVStore, admin lockbox.Address) (lockbox.Address, error) {
	n, err := newAdminSequence(admin).Latest(db)
	if err != nil {
		return nil, err
	}
	addr, _, err := BanlistAddress(admin, n+1)
	return addr, err
}
