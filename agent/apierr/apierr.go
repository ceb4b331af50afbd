// Package apierr defines the error taxonomy shared by the orchestration
// flows. Every failure surfaced to a caller is an *Error carrying a
// machine-checkable Kind, an HTTP-like status and a human readable detail
// string. The agent admin client converts upstream responses into these,
// and the waiters convert exhausted retry bounds into Timeout-kinded ones.
package apierr

import (
	"errors"
	"fmt"
)

// Kind tags an Error with its failure class.
type Kind int

const (
	// Upstream is an agent/ledger call that failed for reasons unrelated
	// to polling. The status and detail come from the upstream response.
	Upstream Kind = iota

	// Timeout is a bounded wait that was exhausted without the condition
	// becoming true.
	Timeout

	// Assertion is a handshake step whose expected connection metadata
	// never appeared.
	Assertion

	// Conflict is a resource that already exists.
	Conflict

	// NotFound is a referenced id that does not exist.
	NotFound

	// Configuration is a non-retryable deployment problem, fatal to the
	// current call.
	Configuration
)

func (k Kind) String() string {
	return [...]string{
		"upstream", "timeout", "assertion", "conflict", "not-found",
		"configuration",
	}[k]
}

// Status returns the default HTTP-like status for the kind.
func (k Kind) Status() int {
	switch k {
	case Timeout:
		return 504
	case Conflict:
		return 409
	case NotFound:
		return 404
	case Assertion, Configuration:
		return 500
	default:
		return 500
	}
}

type Error struct {
	Kind   Kind
	Status int
	Detail string

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an Error of the given kind with the kind's default status.
func New(k Kind, detail string) *Error {
	return &Error{Kind: k, Status: k.Status(), Detail: detail}
}

// Newf is New with formatting.
func Newf(k Kind, format string, a ...any) *Error {
	return New(k, fmt.Sprintf(format, a...))
}

// WithStatus overrides the status carried by the error.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Wrap keeps err as the cause so errors.Is/As still see it.
func Wrap(k Kind, err error, detail string) *Error {
	w := New(k, detail)
	w.cause = err
	return w
}

// AsError returns the *Error inside err, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	if e := AsError(err); e != nil {
		return e.Kind == k
	}
	return false
}

// StatusOf returns the status carried by err, or 500 when err is not an
// *Error.
func StatusOf(err error) int {
	if e := AsError(err); e != nil {
		return e.Status
	}
	return 500
}
