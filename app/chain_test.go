package app

import (
	"context"
	"testing"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest"
	"github.com/lockbox-labs/lockbox/store"
	"github.com/lockbox-labs/lockbox/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	var help utils.TestHelpers
	c1 := help.CountingDecorator()
	c2 := help.CountingDecorator()
	c3 := help.CountingDecorator()
	h := help.CountingHandler()

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		nil,
		utils.NewRecovery(),
		c2,
	).Chain(c3).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &lockboxtest.Tx{Msg: &lockboxtest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(ctx, db, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	assert.NoError(t, err)

	// decorators are counted double, once in, once out
	assert.Equal(t, 4, c1.GetCount())
	assert.Equal(t, 4, c2.GetCount())
	assert.Equal(t, 4, c3.GetCount())
	assert.Equal(t, 2, h.GetCount())

	// now, let's trigger a panic below c2
	panicking := ChainDecorators(c1, utils.NewRecovery(), c2).
		WithHandler(help.PanicHandler(errors.ErrHuman))
	_, err = panicking.Check(ctx, db, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = panicking.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 8, c1.GetCount())
	// c2 is called twice in, but not out
	assert.Equal(t, 6, c2.GetCount())
}

func TestChainOrder(t *testing.T) {
	var help utils.TestHelpers
	db := store.MemStore()
	key := []byte("order")

	// The first decorator runs first, so the second write wins.
	stack := ChainDecorators(
		help.WriteDecorator(key, []byte("first"), false),
		help.WriteDecorator(key, []byte("second"), false),
	).WithHandler(help.CountingHandler())

	var _ lockbox.Handler = stack
	_, err := stack.Deliver(context.Background(), db, &lockboxtest.Tx{})
	assert.NoError(t, err)
	val, err := db.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("second"), val)
}
