package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// pendingAscending returns the pending entries in [start, end) in
// ascending order. A nil bound is open.
func pendingAscending(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	collect := func(i btree.Item) bool {
		e := i.(entry)
		if end != nil && bytes.Compare(e.key, end) >= 0 {
			return false
		}
		res = append(res, e)
		return true
	}
	if start == nil {
		bt.Ascend(collect)
	} else {
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	}
	return res
}

// pendingDescending is pendingAscending in reverse.
func pendingDescending(bt *btree.BTree, start, end []byte) []entry {
	var res []entry
	collect := func(i btree.Item) bool {
		e := i.(entry)
		if start != nil && bytes.Compare(e.key, start) < 0 {
			return false
		}
		if end == nil || bytes.Compare(e.key, end) < 0 {
			res = append(res, e)
		}
		return true
	}
	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(entry{key: end}, collect)
	}
	return res
}

// cacheIterator merges the cached items with the parent iterator.
// Cached values shadow the parent ones and deleted items hide them.
type cacheIterator struct {
	parent  lockbox.Iterator
	cached  []entry
	reverse bool

	// next item from the parent, if peeked
	peeked     bool
	parentDone bool
	pkey, pval []byte
}

var _ lockbox.Iterator = (*cacheIterator)(nil)

func newCacheIterator(parent lockbox.Iterator, cached []entry, reverse bool) *cacheIterator {
	return &cacheIterator{
		parent:  parent,
		cached:  cached,
		reverse: reverse,
	}
}

func (c *cacheIterator) peek() error {
	if c.peeked || c.parentDone {
		return nil
	}
	key, val, err := c.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		c.parentDone = true
		return nil
	}
	if err != nil {
		return err
	}
	c.pkey, c.pval, c.peeked = key, val, true
	return nil
}

// Next implements Iterator.
func (c *cacheIterator) Next() (key, value []byte, err error) {
	for {
		if err := c.peek(); err != nil {
			return nil, nil, err
		}
		if len(c.cached) == 0 {
			if !c.peeked {
				return nil, nil, errors.ErrIteratorDone
			}
			c.peeked = false
			return c.pkey, c.pval, nil
		}

		e := c.cached[0]
		if c.peeked {
			cmp := bytes.Compare(c.pkey, e.key)
			if c.reverse {
				cmp = -cmp
			}
			if cmp < 0 {
				c.peeked = false
				return c.pkey, c.pval, nil
			}
			if cmp == 0 {
				// shadowed by the cache
				c.peeked = false
			}
		}

		c.cached = c.cached[1:]
		if !e.deleted {
			return e.key, e.value, nil
		}
	}
}

// Release implements Iterator.
func (c *cacheIterator) Release() {
	c.parent.Release()
	c.cached = nil
}
