package services

import (
	"errors"
	"fmt"

	"toolstore/internal/store"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation  = errors.New("validation")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrAuth        = errors.New("unauthorized")
	ErrExpired     = errors.New("expired")
	ErrInvalidCode = errors.New("invalid code")
)

// Error pairs a kind with a message that is safe to show the caller.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newErr(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...any) error { return newErr(ErrValidation, format, args...) }
func conflict(format string, args ...any) error   { return newErr(ErrConflict, format, args...) }
func notFound(format string, args ...any) error   { return newErr(ErrNotFound, format, args...) }

var (
	ErrMissingToken   = &Error{Kind: ErrAuth, Msg: "no token, authorization denied"}
	ErrInvalidToken   = &Error{Kind: ErrAuth, Msg: "token is not valid or has expired"}
	ErrUnknownUser    = &Error{Kind: ErrAuth, Msg: "user no longer exists"}
	ErrBadCredentials = &Error{Kind: ErrAuth, Msg: "invalid credentials"}
	ErrNotVerified    = &Error{Kind: ErrAuth, Msg: "account is not verified"}
)

// storeErr translates store sentinels; what names the entity for messages.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound("%s not found", what)
	case errors.Is(err, store.ErrDuplicate):
		return conflict("%s already exists", what)
	}
	return err
}
