package utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	var help TestHelpers

	// always write ok, ov before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	// a default error if desired
	derr := fmt.Errorf("something went wrong")

	cases := map[string]struct {
		save    lockbox.Decorator
		handler lockbox.Handler
		check   bool // whether to call Check or Deliver
		isError bool

		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled keeps partial writes": {
			save:    NewSavepoint(),
			handler: help.WriteHandler(nk, nv, derr),
			check:   true,
			isError: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back": {
			save:    NewSavepoint().OnCheck(),
			handler: help.WriteHandler(nk, nv, derr),
			check:   true,
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: help.WriteHandler(nk, nv, derr),
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation keeps both": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: help.WriteHandler(nk, nv, derr),
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: help.WriteHandler(nk, nv, derr),
			isError: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: help.WriteHandler(nk, nv, nil),
			written: [][]byte{ok, nk},
		},
		"write decorator after failure": {
			save:    help.WriteDecorator([]byte{1}, []byte{2}, true),
			handler: help.WriteHandler(nk, nv, derr),
			isError: true,
			written: [][]byte{ok, nk},
			missing: [][]byte{{1}},
		},
		"write decorator before": {
			save:    help.WriteDecorator([]byte{1}, []byte{2}, false),
			handler: help.WriteHandler(nk, nv, nil),
			check:   true,
			written: [][]byte{ok, nk, {1}},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if tc.isError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}
