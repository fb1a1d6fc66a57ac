package assert

import (
	"fmt"
	"testing"

	"github.com/lockbox-labs/lockbox/errors"
)

// recorder is a Tester that records failures instead of stopping the
// test.
type recorder struct {
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatal(args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprint(args...))
}

func (r *recorder) Fatalf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func check(t *testing.T, wantFail bool, fn func(Tester)) {
	t.Helper()
	var r recorder
	fn(&r)
	if failed := len(r.failures) > 0; failed != wantFail {
		t.Fatalf("want failure %v, got %q", wantFail, r.failures)
	}
}

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		want, got error
		wantFail  bool
	}{
		"same error":      {want: errors.ErrEmpty, got: errors.ErrEmpty},
		"both nil":        {},
		"wrapped":         {want: errors.ErrEmpty, got: errors.Wrap(errors.ErrEmpty, "locker")},
		"different error": {want: errors.ErrEmpty, got: errors.ErrHuman, wantFail: true},
		"compared to nil": {got: errors.ErrEmpty, wantFail: true},
		"nil got":         {want: errors.ErrEmpty, wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			check(t, tc.wantFail, func(r Tester) { IsErr(r, tc.want, tc.got) })
		})
	}
}

func TestFieldError(t *testing.T) {
	cases := map[string]struct {
		err      error
		field    string
		want     *errors.Error
		wantFail bool
	}{
		"single error found": {
			err:   errors.Field("Owner", errors.ErrHuman, "missing"),
			field: "Owner",
			want:  errors.ErrHuman,
		},
		"no error for another field": {
			err:   errors.Field("Owner", errors.ErrHuman, "missing"),
			field: "Amount",
		},
		"unexpected error": {
			err:      errors.Field("Owner", errors.ErrHuman, "missing"),
			field:    "Owner",
			wantFail: true,
		},
		"wrong error": {
			err:      errors.Field("Owner", errors.ErrHuman, "missing"),
			field:    "Owner",
			want:     errors.ErrEmpty,
			wantFail: true,
		},
		"two errors for one field": {
			err: errors.Append(
				errors.Field("Owner", errors.ErrHuman, "first"),
				errors.Field("Owner", errors.ErrHuman, "second"),
			),
			field:    "Owner",
			want:     errors.ErrHuman,
			wantFail: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			check(t, tc.wantFail, func(r Tester) { FieldError(r, tc.err, tc.field, tc.want) })
		})
	}
}

func TestNilAndEqual(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]int
	check(t, false, func(r Tester) { Nil(r, nil) })
	check(t, false, func(r Tester) { Nil(r, nilPtr) })
	check(t, false, func(r Tester) { Nil(r, nilMap) })
	check(t, true, func(r Tester) { Nil(r, 0) })
	check(t, true, func(r Tester) { NotNil(r, nilPtr) })

	check(t, false, func(r Tester) { Equal(r, []byte("a"), []byte("a")) })
	check(t, true, func(r Tester) { Equal(r, uint64(1), 1) })
	check(t, true, func(r Tester) { True(r, false, "locker") })
}

func TestPanics(t *testing.T) {
	check(t, false, func(r Tester) { Panics(r, func() { panic("boom") }) })
	check(t, true, func(r Tester) { Panics(r, func() {}) })
}
