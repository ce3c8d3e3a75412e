package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies what went wrong with an upstream call so the HTTP layer
// can pick a response status without inspecting service-specific details.
type Kind int

const (
	// KindNotConfigured means required settings are missing; no network
	// call was attempted.
	KindNotConfigured Kind = iota
	// KindUnreachable is a transport-level failure: refused connection,
	// DNS failure, timeout.
	KindUnreachable
	// KindRejected is an HTTP status >= 400 from the upstream.
	KindRejected
	// KindMalformed is a 2xx response whose body could not be decoded.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotConfigured:
		return "not_configured"
	case KindUnreachable:
		return "unreachable"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// maxBodyDetail bounds how much of an upstream body is carried in an error.
const maxBodyDetail = 500

// Error is the single error type surfaced by all adapters.
type Error struct {
	Service     string
	Kind        Kind
	Status      int    // upstream HTTP status, 0 when not applicable
	ContentType string // set for malformed bodies
	Body        string // truncated upstream body, for diagnosis only
	Err         error  // wrapped transport or decode error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotConfigured:
		return fmt.Sprintf("%s not configured", e.Service)
	case KindRejected:
		return fmt.Sprintf("%s error (%d)", e.Service, e.Status)
	case KindMalformed:
		return fmt.Sprintf("%s returned an unparseable response (%d, %s)", e.Service, e.Status, e.ContentType)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s unreachable: %v", e.Service, e.Err)
		}
		return fmt.Sprintf("%s unreachable", e.Service)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NotConfigured reports that a service cannot be called because required
// settings are absent.
func NotConfigured(service string) *Error {
	return &Error{Service: service, Kind: KindNotConfigured}
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// IsNotConfigured reports whether err is a missing-settings failure.
func IsNotConfigured(err error) bool {
	ue, ok := AsError(err)
	return ok && ue.Kind == KindNotConfigured
}

// IsTimeout reports whether err was caused by the per-call deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func truncateBody(b []byte) string {
	if len(b) > maxBodyDetail {
		return string(b[:maxBodyDetail])
	}
	return string(b)
}
