package httpclient

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// StdClient implements Client on top of net/http. Every example repo
// in the corpus reaches for the standard library for plain outbound
// HTTP; no ecosystem client in the pack adds anything a HEAD-only,
// timeout-and-redirect-bounded prober needs (see DESIGN.md).
type StdClient struct{}

// NewStdClient returns a ready-to-use stdlib HTTP prober client.
func NewStdClient() *StdClient { return &StdClient{} }

func (c *StdClient) Head(ctx context.Context, url string, opts Options) (Response, error) {
	timeout := time.Duration(opts.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 5
	}

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Response{}, &TransportError{Message: err.Error()}
	}

	resp, err := client.Do(req)
	if err != nil {
		var urlErr interface{ Timeout() bool }
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return Response{}, &TransportError{Message: "request timed out"}
		}
		return Response{}, &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	return Response{
		Status:      resp.StatusCode,
		StatusText:  http.StatusText(resp.StatusCode),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
