// Package probe implements the HTTP prober (spec.md §4.B): a single
// HEAD request bounded by a timeout and a redirect cap, with no
// retries and no body read at this layer.
package probe

import (
	"context"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/httpclient"
)

// Config bounds every probe issued by a Prober.
type Config struct {
	// TimeoutMs defaults to 5000 if zero.
	TimeoutMs int
	// MaxRedirects defaults to 5 if zero.
	MaxRedirects int
}

func (c Config) withDefaults() Config {
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = 5000
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 5
	}
	return c
}

// Prober issues one HEAD probe per call, translating transport
// failures into httpclient.TransportError and passing through whatever
// status the server returned otherwise (spec.md §4.B: "Non-2xx HTTP
// responses return their status untranslated; the Validator decides
// validity").
type Prober struct {
	client httpclient.Client
	cfg    Config
}

// New builds a Prober over client with the given bounds.
func New(client httpclient.Client, cfg Config) *Prober {
	return &Prober{client: client, cfg: cfg.withDefaults()}
}

// Probe issues the HEAD request for url under ctx, which the caller
// controls for cancellation (spec.md §5: "all probe operations must
// run under a deadline the caller controls").
func (p *Prober) Probe(ctx context.Context, url string) (httpclient.Response, error) {
	return p.client.Head(ctx, url, httpclient.Options{
		TimeoutMs:    p.cfg.TimeoutMs,
		MaxRedirects: p.cfg.MaxRedirects,
	})
}
