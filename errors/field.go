package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the field it is about and an optional
// formatted description. A nil err gives nil. Nested fields use dot
// notation, for example Config.FeeWallet.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField appends Field(fieldName, fieldErrOrNil, "") to errorsOrNil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

// Cause implements the causer interface.
func (err *fieldError) Cause() error {
	return err.parent
}

// Field implements fielder interface.
func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors collects the errors created by Field for fieldName,
// searching through wrapped and appended errors.
func FieldErrors(err error, fieldName string) []error {
	for !isNilErr(err) {
		switch e := err.(type) {
		case fielder:
			if e.Field() == fieldName {
				return []error{err}
			}
		case unpacker:
			var res []error
			for _, inner := range e.Unpack() {
				res = append(res, FieldErrors(inner, fieldName)...)
			}
			return res
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

type fielder interface {
	Field() string
}

// Append joins errs into one error, skipping nils and flattening grouped
// errors. It returns nil when nothing is left and the error itself when
// only one is.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(unpacker); ok {
			res = append(res, u.Unpack()...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr represents a group of errors. It is never empty.
type multiErr []error

func (e multiErr) Unpack() []error {
	return e
}

func (e multiErr) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = "* " + err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(e), strings.Join(msgs, "\n\t"))
}

// Code returns the code of the first error with a code, following the
// fail-fast behaviour. Without any coded error it returns the internal code.
func (e multiErr) Code() uint32 {
	for _, err := range e {
		if c := code(err); c != internalCode {
			return c
		}
	}
	return internalCode
}
