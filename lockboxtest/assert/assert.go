// Package assert provides the few assertions used by the tests of this
// module. Every assertion stops the test on failure.
package assert

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/lockbox-labs/lockbox/errors"
)

// Tester is the part of testing.TB used by the assertions.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if value is not nil. Typed nil pointers, maps,
// slices and similar count as nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of errors that carry one.
		t.Fatalf("want nil, got %+v", value)
	}
}

// NotNil fails the test if value is nil.
func NotNil(t Tester, value interface{}) {
	t.Helper()
	if isNil(value) {
		t.Fatal("want a non nil value")
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if want and got are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// True fails the test if cond does not hold. msg is printed on failure.
func True(t Tester, cond bool, msg ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatal("condition not met " + fmt.Sprint(msg...))
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	panicked := func() (p bool) {
		defer func() { p = recover() != nil }()
		fn()
		return false
	}()
	if !panicked {
		t.Fatal("want a panic")
	}
}

// IsErr fails the test unless got is want or matches it through want's
// Is method. Two nil errors match.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if m, ok := want.(interface{ Is(error) bool }); ok && m.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails the test unless err holds exactly one error for the
// given field and that error matches want. A nil want asserts that the
// field has no error at all.
func FieldError(t Tester, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	switch {
	case want == nil && len(errs) == 0:
		return
	case want == nil:
		t.Fatalf("want no %s error, got %s", field, describe(errs))
	case len(errs) == 0:
		t.Fatalf("want %s error %q, got none", field, want)
	case len(errs) > 1:
		t.Fatalf("want a single %s error, got %s", field, describe(errs))
	case !want.Is(errs[0]):
		t.Fatalf("want %s error %q, got %q", field, want, errs[0])
	}
}

func describe(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = fmt.Sprintf("%q", e)
	}
	return fmt.Sprintf("%d: %s", len(errs), strings.Join(parts, ", "))
}
