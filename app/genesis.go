package app

import (
	"encoding/json"
	"os"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// Genesis file format. AppState is passed to the initializers of all
// extensions, each reading its own key.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState lockbox.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return &gen, nil
}

// InitChain stores the chain ID and initializes all extensions from the
// genesis state. It fails if the database was already initialized.
func InitChain(db lockbox.KVStore, gen *Genesis, init lockbox.Initializer) error {
	if err := saveChainID(db, gen.ChainID); err != nil {
		return err
	}
	if err := init.FromGenesis(gen.AppState, db); err != nil {
		return errors.Wrap(err, "initialize from genesis")
	}
	return nil
}

//------- storing chainID ---------

const chainIDKey = "_i.chain_id"

// LoadChainID returns the chain id stored if any
func LoadChainID(db lockbox.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(db lockbox.KVStore, chainID string) error {
	if !lockbox.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	k := []byte(chainIDKey)
	switch exists, err := db.Has(k); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case exists:
		return errors.Wrap(errors.ErrAlreadyInitialized, "chain id")
	}
	return db.Set(k, []byte(chainID))
}
