package countrylist

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator) {
	ctrl := NewController(auth)
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathBanMsg, BanHandler{auth: auth, ctrl: ctrl})
}

// CreateHandler stores new banlists.
type CreateHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ lockbox.Handler = CreateHandler{}

// Check verifies the admin signed the message.
func (h CreateHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver stores the banlist and returns its address.
func (h CreateHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, b, err := h.ctrl.Create(ctx, db, msg.Admin, msg.Countries)
	if err != nil {
		return nil, err
	}
	lockbox.GetLogger(ctx).Info("banlist created", "address", addr, "countries", len(b.Countries))
	return &lockbox.DeliverResult{Data: addr}, nil
}

func (h CreateHandler) validate(ctx lockbox.Context, tx lockbox.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	return &msg, nil
}

// BanHandler appends codes to a banlist.
type BanHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ lockbox.Handler = BanHandler{}

// Check verifies the banlist exists and the admin signed the message.
func (h BanHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver stores the extended banlist.
func (h BanHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	b, err := h.ctrl.Ban(ctx, db, msg.Banlist, msg.Countries)
	if err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{Data: b}, nil
}

func (h BanHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*BanMsg, *Banlist, error) {
	var msg BanMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	b, err := h.ctrl.Banlist(db, msg.Banlist)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, b.Admin) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	return &msg, b, nil
}
