package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/httpclient"
)

type recordingClient struct {
	gotOpts httpclient.Options
	resp    httpclient.Response
	err     error
}

func (c *recordingClient) Head(ctx context.Context, url string, opts httpclient.Options) (httpclient.Response, error) {
	c.gotOpts = opts
	return c.resp, c.err
}

func TestProbeAppliesDefaultTimeoutAndRedirectCap(t *testing.T) {
	client := &recordingClient{resp: httpclient.Response{Status: 200}}
	p := New(client, Config{})

	_, err := p.Probe(context.Background(), "https://cdn.example.com/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, 5000, client.gotOpts.TimeoutMs)
	assert.Equal(t, 5, client.gotOpts.MaxRedirects)
}

func TestProbePassesThroughConfiguredBounds(t *testing.T) {
	client := &recordingClient{resp: httpclient.Response{Status: 200}}
	p := New(client, Config{TimeoutMs: 1000, MaxRedirects: 1})

	_, err := p.Probe(context.Background(), "https://cdn.example.com/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, 1000, client.gotOpts.TimeoutMs)
	assert.Equal(t, 1, client.gotOpts.MaxRedirects)
}

func TestProbePropagatesTransportError(t *testing.T) {
	client := &recordingClient{err: &httpclient.TransportError{Message: "dns lookup failed"}}
	p := New(client, Config{})

	_, err := p.Probe(context.Background(), "https://missing.invalid/a.jpg")
	require.Error(t, err)
	assert.Equal(t, "dns lookup failed", err.Error())
}
