package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostForwardsHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	raw, err := post(context.Background(), srv.Client(), ProviderAnthropic, HTTPRequest{
		URL:     srv.URL,
		Headers: map[string]string{"x-api-key": "secret"},
		Body:    map[string]string{"a": "b"},
	}, time.Second, slog.Default())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestPostClassifiesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer srv.Close()

	_, err := post(context.Background(), srv.Client(), ProviderOpenAI, HTTPRequest{URL: srv.URL, Body: map[string]string{}}, time.Second, slog.Default())
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusTooManyRequests, pe.Status)
	assert.Len(t, pe.Body, maxErrorBody)
	assert.False(t, pe.Timeout())
}

func TestPostDeadlineIsTransportTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := post(context.Background(), srv.Client(), ProviderGoogle, HTTPRequest{URL: srv.URL, Body: map[string]string{}}, 50*time.Millisecond, slog.Default())
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, pe.Status)
	assert.True(t, pe.Timeout())
}

func TestRedactDropsQuery(t *testing.T) {
	assert.Equal(t, "https://example.test/v1beta/models/m:generateContent",
		redact("https://example.test/v1beta/models/m:generateContent?key=secret"))
}
