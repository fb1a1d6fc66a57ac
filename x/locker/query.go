package locker

import (
	"github.com/lockbox-labs/lockbox"
)

// Status is the effective state of a locker. It is not stored, but
// derived from the locker and the current time.
type Status int

const (
	// StatusFunding means nothing can be withdrawn yet and, for linear
	// lockers, the emission did not start.
	StatusFunding Status = iota
	// StatusVesting means the linear emission is running.
	StatusVesting
	// StatusWithdrawable means some funds can be withdrawn now.
	StatusWithdrawable
	// StatusWithdrawn means everything was withdrawn. The locker can be
	// closed.
	StatusWithdrawn
)

func (s Status) String() string {
	switch s {
	case StatusFunding:
		return "funding"
	case StatusVesting:
		return "vesting"
	case StatusWithdrawable:
		return "withdrawable"
	case StatusWithdrawn:
		return "withdrawn"
	}
	return "unknown"
}

// State returns the status of l at now.
func State(l *Locker, now lockbox.UnixTime) (Status, error) {
	if l.Remaining() == 0 {
		return StatusWithdrawn, nil
	}
	available, err := WithdrawableAmount(l, now)
	if err != nil {
		return 0, err
	}
	switch {
	case available > 0:
		return StatusWithdrawable, nil
	case l.Linear && now >= l.StartEmission && now < l.CurrentUnlockDate:
		return StatusVesting, nil
	}
	return StatusFunding, nil
}

// Withdrawable returns how much the locker with the given identity
// releases at now.
func Withdrawable(db lockbox.ReadOnlyKVStore, id lockbox.Address, now lockbox.UnixTime) (uint64, error) {
	l, err := LoadLocker(db, id)
	if err != nil {
		return 0, err
	}
	return WithdrawableAmount(l, now)
}
