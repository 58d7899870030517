// Package services provides the provider discovery, configuration, and LLM
// client services for the modelcast CLI.
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"modelcast/internal/logger"
)

// DefaultDiscoveryTimeout bounds a single discovery round-trip.
const DefaultDiscoveryTimeout = 10 * time.Second

// HTTPRequestService provides HTTP/HTTPS request operations.
// This service is stateless and focuses on simple request/response operations.
type HTTPRequestService struct {
	initialized bool
	timeout     time.Duration
	client      *http.Client
}

// HTTPRequest represents an HTTP request configuration.
type HTTPRequest struct {
	Method  string            // HTTP method (GET, POST, ...)
	URL     string            // Request URL
	Headers map[string]string // HTTP headers
	Body    string            // Request body (for POST, PUT, etc.)
}

// HTTPResponse represents an HTTP response.
type HTTPResponse struct {
	StatusCode int               // HTTP status code
	Status     string            // HTTP status message
	Headers    map[string]string // Response headers
	Body       []byte            // Response body
}

// NewHTTPRequestService creates a new HTTPRequestService instance with the default discovery timeout.
func NewHTTPRequestService() *HTTPRequestService {
	return &HTTPRequestService{
		initialized: false,
		timeout:     DefaultDiscoveryTimeout,
	}
}

// Name returns the service name "http_request" for registration.
func (h *HTTPRequestService) Name() string {
	return "http_request"
}

// Initialize sets up the HTTPRequestService for operation.
func (h *HTTPRequestService) Initialize() error {
	h.client = &http.Client{
		Timeout: h.timeout,
	}
	h.initialized = true
	logger.Debug("HTTPRequestService initialized", "timeout", h.timeout.String())
	return nil
}

// SetTimeout configures the request timeout.
func (h *HTTPRequestService) SetTimeout(timeout time.Duration) {
	h.timeout = timeout
	if h.client != nil {
		h.client.Timeout = timeout
	}
	logger.Debug("HTTP request timeout updated", "timeout", timeout.String())
}

// Timeout returns the configured request timeout.
func (h *HTTPRequestService) Timeout() time.Duration {
	return h.timeout
}

// SendRequest sends an HTTP request and returns the response. The request is
// bounded by both the caller's context and the configured timeout.
func (h *HTTPRequestService) SendRequest(ctx context.Context, request HTTPRequest) (*HTTPResponse, error) {
	if !h.initialized {
		return nil, fmt.Errorf("http request service not initialized")
	}

	if request.URL == "" {
		return nil, fmt.Errorf("URL is required")
	}

	method := request.Method
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	logger.Debug("Starting HTTP request",
		"method", method,
		"url", request.URL,
		"timeout", h.timeout.String(),
		"headers_count", len(request.Headers))

	var bodyReader io.Reader
	if request.Body != "" {
		bodyReader = strings.NewReader(request.Body)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, request.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range request.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		logger.Debug("HTTP request failed", "method", method, "url", request.URL, "error", err)
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	responseHeaders := make(map[string]string)
	for key, values := range resp.Header {
		if len(values) > 0 {
			responseHeaders[key] = values[0]
		}
	}

	logger.Debug("HTTP request completed",
		"method", method,
		"url", request.URL,
		"status_code", resp.StatusCode,
		"body_length", len(bodyBytes))

	return &HTTPResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    responseHeaders,
		Body:       bodyBytes,
	}, nil
}

// Get performs a simple GET request.
func (h *HTTPRequestService) Get(ctx context.Context, url string, headers map[string]string) (*HTTPResponse, error) {
	return h.SendRequest(ctx, HTTPRequest{
		Method:  http.MethodGet,
		URL:     url,
		Headers: headers,
	})
}
