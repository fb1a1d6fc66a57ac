package locker

import (
	"math/bits"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
)

// WithdrawableAmount returns how much of the locker can be withdrawn at
// now.
//
// A cliff locker releases everything that was not withdrawn yet once now
// reaches the unlock date, nothing before. A linear locker releases
// deposited * elapsed / period, where elapsed is clamped to the emission
// period, minus what was already withdrawn.
func WithdrawableAmount(l *Locker, now lockbox.UnixTime) (uint64, error) {
	if l.WithdrawnAmount > l.DepositedAmount {
		return 0, errors.Wrap(errors.ErrState, "withdrawn more than deposited")
	}
	if !l.Linear {
		if now < l.CurrentUnlockDate {
			return 0, nil
		}
		return l.Remaining(), nil
	}

	period := l.CurrentUnlockDate - l.StartEmission
	if period <= 0 {
		return 0, errors.Wrap(errors.ErrState, "empty emission period")
	}
	elapsed := now - l.StartEmission
	switch {
	case elapsed < 0:
		elapsed = 0
	case elapsed > period:
		elapsed = period
	}
	released, err := mulDiv(l.DepositedAmount, uint64(elapsed), uint64(period))
	if err != nil {
		return 0, err
	}
	// A split lowers the deposit but keeps what was withdrawn, so the
	// released share can fall behind for a while.
	if released < l.WithdrawnAmount {
		return 0, nil
	}
	return released - l.WithdrawnAmount, nil
}

// mulDiv returns floor(a * b / d) computed with a 128 bit intermediate.
func mulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, errors.Wrap(errors.ErrInput, "division by zero")
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, errors.Wrap(errors.ErrOverflow, "mul div")
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}
