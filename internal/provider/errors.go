package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrNotConfigured indicates a missing credential or dependency.
	// Detected before any network call is attempted.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrUnavailable indicates a transport, upstream, or parse failure
	// during the call itself.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrUnknown indicates the requested provider name is not registered.
	ErrUnknown = errors.New("unknown provider")
)

// IsConfigError reports whether the error is an operator-side
// configuration problem rather than a call failure.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
