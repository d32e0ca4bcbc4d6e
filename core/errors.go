package core

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies the outcome of a resolution attempt so facades can map it
// to a transport-specific status without re-inspecting the error chain.
type Kind int

const (
	// KindNotFound means upstream confirmed the key does not exist.
	KindNotFound Kind = iota
	// KindInvalidInput means the request was malformed at the boundary.
	KindInvalidInput
	// KindRateLimited means upstream answered 429 and no stale fallback was
	// available. A local token-bucket wait that fails is KindUnavailable.
	KindRateLimited
	// KindUnavailable means upstream transport/5xx failed and no stale
	// fallback was available.
	KindUnavailable
	// KindInternal means a decoder or invariant failure internal to Xenos.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the error type surfaced by the Mojang client and the resolver.
// Every error that crosses a facade boundary is, or wraps, an *Error so the
// facade can recover a Kind via AsError.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError constructs a classified error, optionally wrapping a cause.
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// AsError recovers a *Error from err, if any is present in its chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound reports whether err classifies as KindNotFound.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNotFound
}

// isDegradable reports whether err represents a transient condition that
// should fall back to a known stale entry rather than fail the request
// outright (§5: "exceeding the outer deadline while a stale entry is known
// returns the stale entry"). A raw context deadline/cancellation — as can
// surface from a single-flight wait timing out while the leader is still
// in flight — counts the same as a classified KindRateLimited/KindUnavailable,
// since both mean "upstream didn't answer in time," not "upstream said no."
func isDegradable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Kind == KindRateLimited || e.Kind == KindUnavailable
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// classifyUpstreamErr ensures every error the resolver returns is a
// classified *Error. A raw context deadline/cancellation is wrapped as
// KindUnavailable rather than left to fall through to a generic internal
// error at the facade boundary.
func classifyUpstreamErr(err error) error {
	if _, ok := AsError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewError(KindUnavailable, "request deadline exceeded", err)
	}
	return err
}
