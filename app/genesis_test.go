package app

import (
	"testing"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts lockbox.Options, kv lockbox.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(lockbox.Options, lockbox.KVStore) error {
	c.called++
	return nil
}

func TestLoadGenesis(t *testing.T) {
	cases := map[string]struct {
		file         string
		parseError   bool
		initErr      bool
		expectChain  string
		expectCalled int
		expectValue  []byte
	}{
		"no such file": {
			file:       "bad_file.json",
			parseError: true,
		},
		"proper parse": {
			file:         "testdata/genesis.json",
			expectChain:  "test-chain-67",
			expectCalled: 1,
			expectValue:  []byte("secret"),
		},
		"bad init": {
			file:        "testdata/bad_genesis.json",
			initErr:     true,
			expectChain: "super-chain-22",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := LoadGenesis(tc.file)
			if tc.parseError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectChain, gen.ChainID)

			c := new(countInit)
			init := lockbox.ChainInitializers(dummyInit{}, c)
			db := store.MemStore()

			err = InitChain(db, gen, init)
			if tc.initErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			chainID, err := LoadChainID(db)
			require.NoError(t, err)
			assert.Equal(t, tc.expectChain, chainID)
			assert.Equal(t, tc.expectCalled, c.called)
			val, err := db.Get([]byte(dummyKey))
			require.NoError(t, err)
			assert.Equal(t, tc.expectValue, val)
		})
	}
}

func TestInitChainTwice(t *testing.T) {
	db := store.MemStore()
	gen := &Genesis{ChainID: "test-chain"}
	require.NoError(t, InitChain(db, gen, lockbox.ChainInitializers()))
	err := InitChain(db, gen, lockbox.ChainInitializers())
	assert.True(t, errors.ErrAlreadyInitialized.Is(err))

	err = InitChain(store.MemStore(), &Genesis{ChainID: "bad chain"}, lockbox.ChainInitializers())
	assert.True(t, errors.ErrInput.Is(err))
}
