package shortener

import "errors"

var (
	// ErrNetwork covers transport failures, non-2xx responses and malformed bodies.
	ErrNetwork = errors.New("network error")

	// ErrValidation indicates input rejected by the server or by local form checks.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates an unknown identifier or short code.
	ErrNotFound = errors.New("url not found")

	// ErrIdentity indicates the fingerprint could not be computed.
	ErrIdentity = errors.New("identity unavailable")

	// ErrThrottled indicates a request was held back by the client-side rate limit.
	ErrThrottled = errors.New("request throttled")
)
