// Package apperr holds the error kinds shared by handlers and controllers.
// Stores return plain (wrapped) errors; handlers translate them into *Error
// values carrying one of the kinds below.
package apperr

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindInternal        Kind = "INTERNAL"
)

// FieldErrors maps an input field to its violations.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

func (f FieldErrors) String() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(f[field], ", "))
	}
	return strings.Join(parts, "; ")
}

type Error struct {
	Kind    Kind
	Message string
	Fields  FieldErrors
	cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg += " (" + e.Fields.String() + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(fields FieldErrors) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func FieldError(field, message string) *Error {
	fields := FieldErrors{}
	fields.Add(field, message)
	return Validation(fields)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Internal(cause error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err; errors that never passed through this
// package count as INTERNAL.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
