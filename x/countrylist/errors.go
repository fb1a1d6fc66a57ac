package countrylist

import "github.com/lockbox-labs/lockbox/errors"

// ErrInvalidCountry is returned for codes that are not two upper case
// letters.
var ErrInvalidCountry = errors.Register(1200, "invalid country code")
