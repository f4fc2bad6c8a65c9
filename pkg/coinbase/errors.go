package coinbase

import (
	"fmt"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport means the request was not sent or no response arrived.
	KindTransport Kind = iota + 1
	// KindAPI means the server answered with a recognizable error body.
	KindAPI
	// KindDecode means the body was neither a usable envelope nor an error body.
	KindDecode
	// KindInvalidRequest means the request URI could not be built.
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	case KindDecode:
		return "decode"
	case KindInvalidRequest:
		return "invalid request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrTransport      = &Error{Kind: KindTransport}
	ErrAPI            = &Error{Kind: KindAPI}
	ErrDecode         = &Error{Kind: KindDecode}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
)

// APIError is one entry of the API's error body.
type APIError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

func (e APIError) String() string {
	if e.ID == "" {
		return e.Message
	}
	return e.ID + ": " + e.Message
}

// Error is returned by every endpoint method on failure.
type Error struct {
	Kind Kind
	// StatusCode is the HTTP status when a response was received.
	StatusCode int
	// Body is the raw response text, set for KindDecode.
	Body string
	// APIErrors holds the server-reported entries, set for KindAPI.
	APIErrors []APIError
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("coinbase: ")
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	switch e.Kind {
	case KindAPI:
		msgs := make([]string, 0, len(e.APIErrors))
		for _, ae := range e.APIErrors {
			msgs = append(msgs, ae.String())
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(msgs, "; "))
	default:
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	}
	if e.Kind == KindDecode {
		b.WriteString("; body: ")
		b.WriteString(e.Body)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
