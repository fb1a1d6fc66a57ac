package lockbox

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox/errors"
)

// Msg is a request to perform a state transition. It only carries the
// request data, all authentication information is in the wrapping Tx.
type Msg interface {
	proto.Message

	// Path is used by the Router to locate the proper Handler.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs all checks that do not require the state.
	Validate() error
}

// Tx represent the data sent by a caller. It includes the actual
// message, along with information needed to authenticate the sender.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by given transaction into
// given destination. Before returning message validation method is
// called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}
	if err := assign(destination, msg); err != nil {
		return errors.WithType(err, msg)
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// assign sets msg as the value pointed to by destination, which must be
// a pointer to the message type.
func assign(destination interface{}, msg Msg) error {
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		if src.Kind() == reflect.Ptr && src.Elem().Type().AssignableTo(dst.Elem().Type()) {
			dst.Elem().Set(src.Elem())
			return nil
		}
		return errors.Wrapf(errors.ErrType, "cannot assign %T to %T", msg, destination)
	}
	dst.Elem().Set(src)
	return nil
}
