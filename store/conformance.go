package store

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
)

// StoreConstructor returns an empty store and a function releasing it.
type StoreConstructor func() (base lockbox.CacheableKVStore, cleanup func())

// RunConformance checks the behaviour every CacheableKVStore must share:
// layered reads and writes, discarded layers and ordered iteration over
// a cache layer merged with its parent.
func RunConformance(t *testing.T, newStore StoreConstructor) {
	t.Run("layers", func(t *testing.T) { checkLayers(t, newStore) })
	t.Run("overrides", func(t *testing.T) { checkOverrides(t, newStore) })
	t.Run("iteration", func(t *testing.T) { checkIteration(t, newStore) })
}

func checkLayers(t *testing.T, newStore StoreConstructor) {
	base, cleanup := newStore()
	defer cleanup()

	owner, vault := []byte("owner"), []byte("vault")
	assertEntry(t, base, owner, nil)
	assert.Nil(t, base.Set(owner, []byte("alice")))
	assertEntry(t, base, owner, []byte("alice"))

	cache := base.CacheWrap()
	assertEntry(t, cache, owner, []byte("alice"))
	assert.Nil(t, cache.Set(vault, []byte("100")))
	assertEntry(t, cache, vault, []byte("100"))
	assertEntry(t, base, vault, nil)
	assert.Nil(t, cache.Write())
	assertEntry(t, base, vault, []byte("100"))

	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("fee"), []byte("3")))
	assert.Nil(t, discarded.Delete(owner))
	discarded.Discard()
	assertEntry(t, base, owner, []byte("alice"))
	assertEntry(t, base, []byte("fee"), nil)

	deleting := base.CacheWrap()
	assert.Nil(t, deleting.Delete(owner))
	assertEntry(t, deleting, owner, nil)
	assert.Nil(t, deleting.Write())
	assertEntry(t, base, owner, nil)
	assertEntry(t, base, vault, []byte("100"))
}

func checkOverrides(t *testing.T, newStore StoreConstructor) {
	cases := map[string]struct {
		parent []Op
		child  []Op
		// want maps keys to the value expected after the child
		// writes. Nil means missing.
		want map[string][]byte
	}{
		"child overwrites parent": {
			parent: []Op{SetOp([]byte("a"), []byte("1"))},
			child:  []Op{SetOp([]byte("a"), []byte("2"))},
			want:   map[string][]byte{"a": []byte("2")},
		},
		"child deletes parent": {
			parent: []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("1"))},
			child:  []Op{DelOp([]byte("b"))},
			want:   map[string][]byte{"a": []byte("1"), "b": nil},
		},
		"child recreates deleted": {
			parent: []Op{SetOp([]byte("a"), []byte("1"))},
			child:  []Op{DelOp([]byte("a")), SetOp([]byte("a"), []byte("3"))},
			want:   map[string][]byte{"a": []byte("3")},
		},
		"delete of missing key": {
			child: []Op{DelOp([]byte("x")), SetOp([]byte("y"), []byte("1"))},
			want:  map[string][]byte{"x": nil, "y": []byte("1")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := newStore()
			defer cleanup()
			for _, op := range tc.parent {
				assert.Nil(t, op.Apply(parent))
			}
			before := snapshot(t, parent, tc.want)

			child := parent.CacheWrap()
			for _, op := range tc.child {
				assert.Nil(t, op.Apply(child))
			}
			for k, v := range tc.want {
				assertEntry(t, child, []byte(k), v)
			}
			// The parent does not see anything before the write.
			for k, v := range before {
				assertEntry(t, parent, []byte(k), v)
			}

			assert.Nil(t, child.Write())
			for k, v := range tc.want {
				assertEntry(t, parent, []byte(k), v)
			}
		})
	}
}

func checkIteration(t *testing.T, newStore StoreConstructor) {
	const size = 30
	key := func(i int) []byte { return []byte(fmt.Sprintf("locker/%02d", i)) }

	// The parent holds even keys. The child adds odd keys, overwrites
	// every fourth key and deletes every third.
	var parentOps, childOps []Op
	for i := 0; i < size; i += 2 {
		parentOps = append(parentOps, SetOp(key(i), []byte(fmt.Sprintf("parent-%d", i))))
	}
	for i := 1; i < size; i += 2 {
		childOps = append(childOps, SetOp(key(i), []byte(fmt.Sprintf("child-%d", i))))
	}
	for i := 0; i < size; i += 4 {
		childOps = append(childOps, SetOp(key(i), []byte(fmt.Sprintf("override-%d", i))))
	}
	for i := 0; i < size; i += 3 {
		childOps = append(childOps, DelOp(key(i)))
	}
	want := expectedModels(parentOps, childOps)

	base, cleanup := newStore()
	defer cleanup()
	for _, op := range parentOps {
		assert.Nil(t, op.Apply(base))
	}
	child := base.CacheWrap()
	for _, op := range childOps {
		assert.Nil(t, op.Apply(child))
	}

	n := len(want)
	queries := map[string]struct {
		start, end []byte
		want       []Model
	}{
		"all":            {nil, nil, want},
		"from start":     {want[4].Key, nil, want[4:]},
		"until end":      {nil, want[n-3].Key, want[:n-3]},
		"bounded":        {want[2].Key, want[9].Key, want[2:9]},
		"deleted bounds": {key(3), key(9), between(want, key(3), key(9))},
		"empty range":    {key(5), key(5), nil},
	}
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			it, err := child.Iterator(q.start, q.end)
			assert.Nil(t, err)
			assertIterates(t, it, q.want)

			it, err = child.ReverseIterator(q.start, q.end)
			assert.Nil(t, err)
			assertIterates(t, it, reversed(q.want))
		})
	}
}

// expectedModels applies all operations to a map and returns the result
// sorted by key.
func expectedModels(ops ...[]Op) []Model {
	state := make(map[string][]byte)
	for _, group := range ops {
		for _, op := range group {
			if op.IsSetOp() {
				state[string(op.Key())] = op.Value()
			} else {
				delete(state, string(op.Key()))
			}
		}
	}
	models := make([]Model, 0, len(state))
	for k, v := range state {
		models = append(models, Pair([]byte(k), v))
	}
	sort.Slice(models, func(i, j int) bool {
		return bytes.Compare(models[i].Key, models[j].Key) < 0
	})
	return models
}

// between returns the models with start <= key < end.
func between(models []Model, start, end []byte) []Model {
	var res []Model
	for _, m := range models {
		if bytes.Compare(m.Key, start) >= 0 && bytes.Compare(m.Key, end) < 0 {
			res = append(res, m)
		}
	}
	return res
}

func reversed(models []Model) []Model {
	if models == nil {
		return nil
	}
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func snapshot(t testing.TB, kv lockbox.ReadOnlyKVStore, keys map[string][]byte) map[string][]byte {
	t.Helper()
	res := make(map[string][]byte, len(keys))
	for k := range keys {
		v, err := kv.Get([]byte(k))
		assert.Nil(t, err)
		res[k] = v
	}
	return res
}

func assertIterates(t testing.TB, it lockbox.Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, w := range want {
		key, value, err := it.Next()
		assert.Nil(t, err)
		if !bytes.Equal(w.Key, key) {
			t.Fatalf("entry %d: want key %q, got %q", i, w.Key, key)
		}
		assert.Equal(t, w.Value, value)
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %+v", err)
	}
}

// assertEntry checks Get and Has agree on the value stored under key.
// A nil value means the key is missing.
func assertEntry(t testing.TB, kv lockbox.ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, exists)
}
