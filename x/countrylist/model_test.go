package countrylist

import (
	"testing"

	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/lockboxtest"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
)

func TestBanlistBan(t *testing.T) {
	b := Banlist{Admin: lockboxtest.NewAddress()}
	assert.Nil(t, b.Ban("RU", "KP", "IR", "KP"))
	assert.Equal(t, []string{"IR", "KP", "RU"}, b.Countries)
	assert.Nil(t, b.Validate())

	assert.True(t, b.IsBanned("KP"))
	assert.True(t, !b.IsBanned("PL"))

	// Banning is append only and ignores duplicates.
	assert.Nil(t, b.Ban("AF", "RU"))
	assert.Equal(t, []string{"AF", "IR", "KP", "RU"}, b.Countries)

	assert.IsErr(t, ErrInvalidCountry, b.Ban("pl"))
	assert.IsErr(t, ErrInvalidCountry, b.Ban("POL"))
	assert.IsErr(t, ErrInvalidCountry, b.Ban(""))
}

func TestBanlistValidate(t *testing.T) {
	cases := map[string]struct {
		model    Banlist
		wantErrs map[string]*errors.Error
	}{
		"valid": {
			model: Banlist{Admin: lockboxtest.NewAddress(), Countries: []string{"AA", "BB"}},
			wantErrs: map[string]*errors.Error{
				"Admin":     nil,
				"Countries": nil,
			},
		},
		"missing admin": {
			model: Banlist{Countries: []string{"AA"}},
			wantErrs: map[string]*errors.Error{
				"Admin":     errors.ErrEmpty,
				"Countries": nil,
			},
		},
		"unsorted": {
			model: Banlist{Admin: lockboxtest.NewAddress(), Countries: []string{"BB", "AA"}},
			wantErrs: map[string]*errors.Error{
				"Admin":     nil,
				"Countries": errors.ErrInput,
			},
		},
		"lower case": {
			model: Banlist{Admin: lockboxtest.NewAddress(), Countries: []string{"aa"}},
			wantErrs: map[string]*errors.Error{
				"Countries": ErrInvalidCountry,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.model.Validate()
			for field, want := range tc.wantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}
