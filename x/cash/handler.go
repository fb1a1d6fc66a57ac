package cash

import (
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// SendHandler will handle sending value
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ lockbox.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and signed.
func (h SendHandler) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver moves the value from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(ctx, store, msg.Asset, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &lockbox.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx lockbox.Context, tx lockbox.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
