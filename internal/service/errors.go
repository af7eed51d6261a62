package service

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that carry no kind.
	KindUnknown Kind = iota

	// KindTransport is a network or HTTP-layer failure with no interpretable response.
	KindTransport

	// KindValidation means the payload was rejected.
	KindValidation

	// KindNotFound means the referenced id does not exist.
	KindNotFound

	// KindAuth means the credential is missing, invalid or expired.
	KindAuth
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrTransport  = errors.New("transport error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("auth error")
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindValidation:
		return "validation error"
	case KindNotFound:
		return "not found"
	case KindAuth:
		return "auth error"
	default:
		return "error"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindAuth:
		return ErrAuth
	default:
		return nil
	}
}

// Error is the error type returned by gateways and the store.
type Error struct {
	Kind    Kind
	Op      string // e.g. "update task 3"
	Status  int    // HTTP status, 0 if no response
	Message string // server or local message, may be empty
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	switch {
	case e.Message != "":
		return msg + ": " + e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewError builds an *Error.
func NewError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range []Kind{KindTransport, KindValidation, KindNotFound, KindAuth} {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	return KindUnknown
}
