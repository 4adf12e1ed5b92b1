package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdClientHeadReturnsStatusAndContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewStdClient()
	resp, err := c.Head(context.Background(), srv.URL, Options{TimeoutMs: 1000})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "image/jpeg", resp.ContentType)
}

func TestStdClientHeadReturns404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewStdClient()
	resp, err := c.Head(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Status)
}

func TestStdClientHeadTransportErrorOnBadURL(t *testing.T) {
	c := NewStdClient()
	_, err := c.Head(context.Background(), "http://127.0.0.1:1", Options{TimeoutMs: 200})
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}
