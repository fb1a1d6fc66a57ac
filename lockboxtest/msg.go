package lockboxtest

import "github.com/lockbox-labs/lockbox"

// Msg is a message that carries no payload.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
	// LockKeys are returned by Keys.
	LockKeys [][]byte
}

var _ lockbox.Msg = (*Msg)(nil)

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return m.RoutePath }
func (*Msg) ProtoMessage()    {}

// Path implements lockbox.Msg.
func (m *Msg) Path() string {
	return m.RoutePath
}

// Validate implements lockbox.Msg.
func (m *Msg) Validate() error {
	return m.Err
}

// Keys returns LockKeys.
func (m *Msg) Keys(lockbox.ReadOnlyKVStore) ([][]byte, error) {
	return m.LockKeys, nil
}
