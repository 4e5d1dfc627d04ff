package core

import "errors"

// Error taxonomy shared across record sources and the HTTP surface.
// Malformed section HTML is deliberately absent: the content interpreter
// recovers from it locally and it never propagates to a caller.
var (
	// ErrNotFound reports an unknown identifier or a record the remote
	// catalog does not have.
	ErrNotFound = errors.New("program not found")

	// ErrUpstreamUnavailable reports that the remote catalog is
	// unreachable, timed out, or not configured.
	ErrUpstreamUnavailable = errors.New("catalog service unavailable")

	// ErrInvalidInput reports a bad or missing request parameter.
	ErrInvalidInput = errors.New("invalid input")
)
