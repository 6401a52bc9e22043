package service

import (
	"errors"
	"fmt"
)

// ErrorKind tags a precondition or authorization failure so the
// transport layer can map it to a status without parsing messages.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindForbidden           ErrorKind = "forbidden"
	KindValidation          ErrorKind = "validation_error"
	KindAlreadyBorrowed     ErrorKind = "already_borrowed"
	KindAlreadyHoldingBook  ErrorKind = "already_holding_book"
	KindAlreadyMember       ErrorKind = "already_member"
	KindNotMember           ErrorKind = "not_member"
	KindNotHolder           ErrorKind = "not_holder"
	KindHasActiveLoan       ErrorKind = "has_active_loan"
	KindDuplicateAccessCode ErrorKind = "duplicate_access_code"
	KindInvalidAccessCode   ErrorKind = "invalid_access_code"
	KindInvalidCode         ErrorKind = "invalid_code"
	KindCannotRemoveOwner   ErrorKind = "cannot_remove_owner"
	KindWrongCommunity      ErrorKind = "wrong_community"
)

// Error is a typed failure with a message fit for direct display.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a service error, or "" for unexpected
// store failures.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
