package authn

import (
	"errors"
	"fmt"
	"net"
)

// ErrInvalidCredentials is returned when the backend rejects the email or
// password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// NetworkError wraps a transport-level failure reaching the auth backend.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("auth backend unreachable: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// Kind classifies login failures for callers that render messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidCredentials
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNetwork:
		return "network_error"
	default:
		return "unknown"
	}
}

// KindOf classifies an error returned by a Backend.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return KindInvalidCredentials
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindNetwork
	}
	return KindUnknown
}
