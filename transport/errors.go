package transport

import "fmt"

// Kind classifies a failed request into the fixed taxonomy every call site
// shares. Network covers requests for which no response was received.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindClient
	KindServer
	KindNetwork
)

// Message returns the user-visible text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "Not Found"
	case KindServer:
		return "Internal Server Error"
	case KindNetwork:
		return "Network Error"
	default:
		return "Something went wrong"
	}
}

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindClient:
		return "client_error"
	case KindServer:
		return "server_error"
	case KindNetwork:
		return "network_error"
	default:
		return "unknown"
	}
}

// Error is the typed failure produced by the pipeline. Status is zero for
// network failures.
type Error struct {
	Kind   Kind
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Kind.Message(), e.Status)
	}
	return e.Kind.Message()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// classify maps an HTTP status to its error kind.
func classify(status int) Kind {
	switch {
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindClient
	default:
		return KindUnknown
	}
}
