package lockboxtest

import "github.com/lockbox-labs/lockbox"

// Tx represents a single message that is to be processed.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg lockbox.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ lockbox.Tx = (*Tx)(nil)

// GetMsg implements lockbox.Tx.
func (tx *Tx) GetMsg() (lockbox.Msg, error) {
	return tx.Msg, tx.Err
}
