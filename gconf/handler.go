package gconf

import (
	"reflect"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/x"
)

// OwnedConfig must have an admin. A configuration update message must be
// signed by the admin in order to be authorized to apply the change.
type OwnedConfig interface {
	Configuration
	GetAdmin() lockbox.Address
}

// Patcher is implemented by update messages that need more than the
// default patch. The default copies every non zero field of the
// message "Patch" field into the configuration.
type Patcher interface {
	PatchConfig(OwnedConfig) error
}

// UpdateConfigurationHandler processes configuration patch messages.
type UpdateConfigurationHandler struct {
	pkg string
	// newConfig returns an empty instance of the configuration type.
	newConfig func() OwnedConfig
	auth      x.Authenticator
}

var _ lockbox.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch messages.
//
// To pass authentication step, each message must be signed by the current
// configuration admin. The configuration must exist.
func NewUpdateConfigurationHandler(pkg string, newConfig func() OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		newConfig: newConfig,
		auth:      auth,
	}
}

// Check implements lockbox.Checker.
func (h UpdateConfigurationHandler) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.apply(ctx, store, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

// Deliver implements lockbox.Deliverer.
func (h UpdateConfigurationHandler) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	conf, err := h.apply(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	if err := Save(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save updated config")
	}
	return &lockbox.DeliverResult{Data: conf}, nil
}

// apply loads the configuration, authenticates the admin and returns the
// patched configuration. Nothing is written.
func (h UpdateConfigurationHandler) apply(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (OwnedConfig, error) {
	conf := h.newConfig()
	if err := Load(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}
	if !h.auth.HasAddress(ctx, conf.GetAdmin()) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin did not sign transaction")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if p, ok := msg.(Patcher); ok {
		err = p.PatchConfig(conf)
	} else {
		var payload OwnedConfig
		payload, err = patchPayload(msg)
		if err == nil {
			err = Patch(conf, payload)
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "patched configuration")
	}
	return conf, nil
}

// Patch copies all non zero fields of payload into config. Both must be
// pointers to the same struct type.
func Patch(config, payload OwnedConfig) error {
	pType := reflect.TypeOf(payload)
	cType := reflect.TypeOf(config)
	if pType != cType {
		return errors.Wrap(errors.ErrMsg, "config in message doesn't match store")
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()

	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)

		// Zero values do not update the original configuration.
		if isZero(got) {
			continue
		}

		cval.Field(i).Set(got)
	}

	return nil
}

// isZero returns true if given value represents a zero value of a given type.
func isZero(val reflect.Value) bool {
	if val.Kind() == reflect.Slice {
		return val.Len() == 0
	}
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the message to have a "Patch" field of the same
// type as the configuration. Content of this field is extracted and
// returned.
func patchPayload(msg lockbox.Msg) (OwnedConfig, error) {
	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr || field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
