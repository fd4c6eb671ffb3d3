package provider

import "fmt"

// AuthError means the provider rejected the credential (HTTP 401/403).
// It is user-correctable: the key itself is wrong.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "invalid API key: " + e.Message
	}
	return fmt.Sprintf("invalid API key (status %d)", e.StatusCode)
}

// ProviderError is any other non-2xx response, carrying the provider's
// own message when one was present in the body.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("provider request failed with status %d", e.StatusCode)
}

// NetworkError is a transport-level failure: the request never produced
// an HTTP response. These are transient; retrying is the user's call.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Cause.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}
