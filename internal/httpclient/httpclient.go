// Package httpclient defines the outbound HTTP interface the prober
// consumes (spec.md §6) and a stdlib-backed implementation. The
// transport itself is an external collaborator; only the interface
// shape belongs to the core.
package httpclient

import "context"

// Response is the minimal set of fields the validator needs from a
// HEAD probe.
type Response struct {
	Status      int
	StatusText  string
	ContentType string
}

// TransportError represents a failure below the HTTP layer: DNS, TCP,
// TLS, or a timeout. It is never a verdict on its own — spec.md §4.B:
// "it is not a verdict".
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string { return e.Message }

// Options bounds a single probe.
type Options struct {
	// TimeoutMs is the hard wall-clock budget for the request, in
	// milliseconds.
	TimeoutMs int
	// MaxRedirects caps the number of redirects the client will follow.
	MaxRedirects int
}

// Client issues a single outbound HEAD request.
type Client interface {
	Head(ctx context.Context, url string, opts Options) (Response, error)
}
