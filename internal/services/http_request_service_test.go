package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRequestService_Name(t *testing.T) {
	assert.Equal(t, "http_request", NewHTTPRequestService().Name())
}

func TestHTTPRequestService_NotInitialized(t *testing.T) {
	svc := NewHTTPRequestService()
	_, err := svc.Get(context.Background(), "http://example.com", nil)
	assert.ErrorContains(t, err, "not initialized")
}

func TestHTTPRequestService_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-value", r.Header.Get("X-Test-Header"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := NewHTTPRequestService()
	require.NoError(t, svc.Initialize())

	resp, err := svc.Get(context.Background(), server.URL, map[string]string{"X-Test-Header": "test-value"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
}

func TestHTTPRequestService_SendRequestDefaultsToGet(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	svc := NewHTTPRequestService()
	require.NoError(t, svc.Initialize())

	_, err := svc.SendRequest(context.Background(), HTTPRequest{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestHTTPRequestService_EmptyURL(t *testing.T) {
	svc := NewHTTPRequestService()
	require.NoError(t, svc.Initialize())

	_, err := svc.SendRequest(context.Background(), HTTPRequest{})
	assert.ErrorContains(t, err, "URL is required")
}

func TestHTTPRequestService_NonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewHTTPRequestService()
	require.NoError(t, svc.Initialize())

	resp, err := svc.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHTTPRequestService_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewHTTPRequestService()
	svc.SetTimeout(50 * time.Millisecond)
	require.NoError(t, svc.Initialize())

	_, err := svc.Get(context.Background(), server.URL, nil)
	assert.Error(t, err)
}

func TestHTTPRequestService_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewHTTPRequestService()
	require.NoError(t, svc.Initialize())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.Get(ctx, server.URL, nil)
	assert.Error(t, err)
}

func TestHTTPRequestService_TimeoutAccessors(t *testing.T) {
	svc := NewHTTPRequestService()
	assert.Equal(t, DefaultDiscoveryTimeout, svc.Timeout())

	svc.SetTimeout(3 * time.Second)
	assert.Equal(t, 3*time.Second, svc.Timeout())
}
