package gconf

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
	"github.com/lockbox-labs/lockbox/store"
)

type testConfig struct {
	Admin lockbox.Address `protobuf:"bytes,1,opt,name=admin,proto3" json:"admin,omitempty"`
	Fee   uint64          `protobuf:"varint,2,opt,name=fee,proto3" json:"fee,omitempty"`
	Note  string          `protobuf:"bytes,3,opt,name=note,proto3" json:"note,omitempty"`
}

func (m *testConfig) Reset()                    { *m = testConfig{} }
func (m *testConfig) String() string            { return proto.CompactTextString(m) }
func (*testConfig) ProtoMessage()               {}
func (m *testConfig) GetAdmin() lockbox.Address { return m.Admin }

func (m *testConfig) Validate() error {
	if err := m.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if m.Note == "invalid" {
		return errors.Wrap(errors.ErrInput, "note")
	}
	return nil
}

type updateMsg struct {
	Patch *testConfig `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *updateMsg) Reset()         { *m = updateMsg{} }
func (m *updateMsg) String() string { return proto.CompactTextString(m) }
func (*updateMsg) ProtoMessage()    {}
func (*updateMsg) Path() string     { return "test/update" }
func (*updateMsg) Validate() error  { return nil }

func TestSaveLoadCreate(t *testing.T) {
	db := store.MemStore()
	admin := lockboxtest.NewAddress()

	var conf testConfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "test", &conf))

	assert.Nil(t, Create(db, "test", &testConfig{Admin: admin, Fee: 3}))
	assert.Nil(t, Load(db, "test", &conf))
	assert.Equal(t, uint64(3), conf.Fee)

	err := Create(db, "test", &testConfig{Admin: admin, Fee: 4})
	assert.IsErr(t, errors.ErrAlreadyInitialized, err)
	assert.True(t, errors.IsFatal(err))

	assert.IsErr(t, errors.ErrEmpty, Save(db, "test", &testConfig{}))
}

func TestInitConfig(t *testing.T) {
	admin := lockboxtest.NewAddress()
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"test": map[string]interface{}{"admin": admin, "fee": 9},
		},
	})
	assert.Nil(t, err)
	var opts lockbox.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "test", &testConfig{}))

	var conf testConfig
	assert.Nil(t, Load(db, "test", &conf))
	assert.Equal(t, admin, conf.Admin)
	assert.Equal(t, uint64(9), conf.Fee)

	// a package without configuration is skipped
	assert.Nil(t, InitConfig(db, opts, "other", &testConfig{}))
	assert.IsErr(t, errors.ErrNotFound, Load(db, "other", &conf))
}

func TestUpdateConfigurationHandler(t *testing.T) {
	admin := lockboxtest.NewAddress()

	cases := map[string]struct {
		signer  lockbox.Address
		patch   *testConfig
		wantErr *errors.Error
		want    testConfig
	}{
		"admin can patch": {
			signer: admin,
			patch:  &testConfig{Fee: 42},
			want:   testConfig{Admin: admin, Fee: 42, Note: "hello"},
		},
		"zero values are not applied": {
			signer: admin,
			patch:  &testConfig{Note: "bye"},
			want:   testConfig{Admin: admin, Fee: 1, Note: "bye"},
		},
		"only admin can patch": {
			signer:  lockboxtest.NewAddress(),
			patch:   &testConfig{Fee: 42},
			wantErr: errors.ErrUnauthorized,
		},
		"patch is required": {
			signer:  admin,
			wantErr: errors.ErrState,
		},
		"result must be valid": {
			signer:  admin,
			patch:   &testConfig{Note: "invalid"},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			assert.Nil(t, Create(db, "test", &testConfig{Admin: admin, Fee: 1, Note: "hello"}))

			auth := &lockboxtest.Auth{Signer: tc.signer}
			h := NewUpdateConfigurationHandler("test", func() OwnedConfig { return &testConfig{} }, auth)
			tx := &lockboxtest.Tx{Msg: &updateMsg{Patch: tc.patch}}

			_, err := h.Check(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			_, err = h.Deliver(context.Background(), db, tx)
			assert.Nil(t, err)

			var got testConfig
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
