package locker

import "github.com/lockbox-labs/lockbox/errors"

// Errors specific to lockers. Codes from the 1000 range are reserved for
// this extension.
var (
	ErrTooEarlyToWithdraw     = errors.Register(1000, "too early to withdraw")
	ErrInvalidUnlockDate      = errors.Register(1001, "invalid unlock date")
	ErrJurisdictionBanned     = errors.Register(1002, "jurisdiction banned")
	ErrAssetNotAdmitted       = errors.Register(1003, "asset not admitted")
	ErrLinearEmissionDisabled = errors.Register(1004, "linear emission disabled")
)
