package utils

import (
	"context"
	"testing"

	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/store"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	var help TestHelpers
	h := help.PanicHandler(errors.ErrHuman)
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), errors.ErrHuman.Error())
}
