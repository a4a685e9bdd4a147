package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindBusiness   Kind = "business"
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BusinessError is a rule violation that is reported to the caller as is.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Details []FieldError
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindBusiness, Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Kind: KindBusiness, Code: code, Message: message}
}

func ErrConflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ErrValidation(message string, details ...FieldError) error {
	return BusinessError{
		Kind:    KindValidation,
		Code:    "validation_error",
		Message: message,
		Details: details,
	}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
