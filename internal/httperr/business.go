package httperr

import "errors"

// Kind classifies a failure at the operation boundary.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindRemoteWrite  Kind = "remote_write_failure"
	KindPartialWrite Kind = "partial_write"
	KindUnauthorized Kind = "unauthorized"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness keeps the original shorthand: a validation failure identified by code.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrValidation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ErrUnauthorized(code, message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

// ErrRemoteWrite wraps a rejected store call. The cause is shown to the user verbatim.
func ErrRemoteWrite(code, message string, err error) error {
	return BusinessError{Kind: KindRemoteWrite, Code: code, Message: message, Err: err}
}

// ErrPartialWrite marks a multi-step write that stopped after some steps landed.
func ErrPartialWrite(code, message string, err error) error {
	return BusinessError{Kind: KindPartialWrite, Code: code, Message: message, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of the first BusinessError in the chain, or "".
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
