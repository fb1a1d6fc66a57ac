package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox/errors"
)

// Model is implemented by any entity that can be stored using
// ModelBucket. All models are protobuf messages.
type Model interface {
	proto.Message
	Validate() error
}

// Marshal validates the model and returns its protobuf encoding.
func Marshal(m Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %T", m)
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal loads the protobuf encoding into the model.
func Unmarshal(raw []byte, dest Model) error {
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}
