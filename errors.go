package gauge

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// KindInvalidInput is a locally rejected edit or submission.
	KindInvalidInput Kind = iota + 1

	// KindNetworkUnreachable means no response was received: the transport
	// failed or the call timed out.
	KindNetworkUnreachable

	// KindProviderRejected means the provider answered with a failure status.
	KindProviderRejected

	// KindMalformedResponse means the provider answered with an unexpected
	// shape, such as a fan-out missing catalog units.
	KindMalformedResponse

	// KindStaleResponse marks a response that arrived after a newer request
	// was issued. Stale responses are never surfaced to users.
	KindStaleResponse

	// KindExclusivityViolation means both or neither of two mutually
	// exclusive fields were filled.
	KindExclusivityViolation
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNetworkUnreachable:
		return "network_unreachable"
	case KindProviderRejected:
		return "provider_rejected"
	case KindMalformedResponse:
		return "malformed_response"
	case KindStaleResponse:
		return "stale_response"
	case KindExclusivityViolation:
		return "exclusivity_violation"
	default:
		return "unknown"
	}
}

// StatusClass sub-classifies provider rejections by HTTP status.
type StatusClass int

const (
	StatusNone StatusClass = iota
	StatusBadRequest
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusServerError
	StatusUnavailable
)

// String returns the string representation of the status class.
func (c StatusClass) String() string {
	switch c {
	case StatusBadRequest:
		return "bad_request"
	case StatusUnauthorized:
		return "unauthorized"
	case StatusForbidden:
		return "forbidden"
	case StatusNotFound:
		return "not_found"
	case StatusServerError:
		return "server_error"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "none"
	}
}

// ClassifyStatus maps an HTTP status code to its StatusClass.
func ClassifyStatus(status int) StatusClass {
	switch {
	case status == http.StatusUnauthorized:
		return StatusUnauthorized
	case status == http.StatusForbidden:
		return StatusForbidden
	case status == http.StatusNotFound:
		return StatusNotFound
	case status >= 400 && status < 500:
		return StatusBadRequest
	case status == http.StatusBadGateway,
		status == http.StatusServiceUnavailable,
		status == http.StatusGatewayTimeout:
		return StatusUnavailable
	case status >= 500:
		return StatusServerError
	default:
		return StatusNone
	}
}

// Error is the error type returned by converters, calculators and provider
// adapters.
type Error struct {
	Kind Kind

	// Status is the HTTP status for KindProviderRejected, zero otherwise.
	Status int

	// Field names the offending field for local validation failures.
	Field string

	// Detail is a human-readable description. For local failures it is the
	// complete user-facing sentence; for rejections it carries the provider's
	// message when one was returned.
	Detail string

	// Timeout is set when a KindNetworkUnreachable error was caused by the
	// call deadline.
	Timeout bool

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Timeout {
		b.WriteString(" (timeout)")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Class returns the status class of a rejection.
func (e *Error) Class() StatusClass {
	return ClassifyStatus(e.Status)
}

// Sentinel errors.
var (
	ErrClosed         = errors.New("gauge: closed")
	ErrAlreadyStarted = errors.New("gauge: already started")
	ErrNotStarted     = errors.New("gauge: not started")
	ErrNoValue        = errors.New("gauge: no complete value to convert")
	ErrNoEndpoints    = errors.New("gauge: no endpoints configured")

	// ErrLocalFallback accompanies results computed locally because the
	// provider could not serve them.
	ErrLocalFallback = errors.New("gauge: using locally calculated values")
)

// NetworkError wraps a transport failure.
func NetworkError(err error) *Error {
	return &Error{Kind: KindNetworkUnreachable, Err: err}
}

// TimeoutError reports a call that exceeded its deadline.
func TimeoutError(err error) *Error {
	return &Error{Kind: KindNetworkUnreachable, Timeout: true, Err: err}
}

// RejectedError reports a failure status from the provider. detail is the
// provider's own message and may be empty.
func RejectedError(status int, detail string) *Error {
	return &Error{Kind: KindProviderRejected, Status: status, Detail: detail}
}

// MalformedError reports an unexpected response shape.
func MalformedError(detail string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Detail: detail, Err: err}
}

func invalidInput(field, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Detail: msg}
}

func exclusivity(a, b, msg string) *Error {
	return &Error{Kind: KindExclusivityViolation, Field: a + "," + b, Detail: msg}
}

func staleError(epoch uint64) *Error {
	return &Error{Kind: KindStaleResponse, Detail: fmt.Sprintf("response for epoch %d superseded", epoch)}
}

// KindOf returns the Kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsStale reports whether err marks a superseded response.
func IsStale(err error) bool {
	return KindOf(err) == KindStaleResponse
}

// Transient reports whether retrying the same call may succeed: network
// failures, timeouts and server-side statuses.
func Transient(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindNetworkUnreachable:
		return true
	case KindProviderRejected:
		c := e.Class()
		return c == StatusServerError || c == StatusUnavailable
	default:
		return false
	}
}

// Message renders err as a user-facing sentence. Stale responses and nil
// render as the empty string.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrLocalFallback) {
		return "API temporarily unavailable. Using calculated values."
	}
	var e *Error
	if !errors.As(err, &e) {
		return "Unexpected error occurred."
	}
	switch e.Kind {
	case KindStaleResponse:
		return ""
	case KindInvalidInput, KindExclusivityViolation:
		return e.Detail
	case KindNetworkUnreachable:
		if e.Timeout {
			return "Request timed out. Please try again."
		}
		return "Network error: cannot reach server."
	case KindMalformedResponse:
		return "Unexpected response from server."
	case KindProviderRejected:
		if e.Status == http.StatusBadGateway {
			return "Server error (502 Bad Gateway). Please try again."
		}
		if e.Detail != "" {
			return e.Detail
		}
		switch e.Class() {
		case StatusUnauthorized:
			return "Not authorized. Please sign in again."
		case StatusForbidden:
			return "Access denied."
		case StatusNotFound:
			return "Service endpoint not found."
		case StatusUnavailable:
			return "Service temporarily unavailable. Please try again."
		case StatusServerError:
			return fmt.Sprintf("Server error (%d). Please try again.", e.Status)
		default:
			return "Something went wrong."
		}
	default:
		return "Unexpected error occurred."
	}
}
