package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"modelcast/internal/logger"
	"modelcast/pkg/types"
)

// ModelDiscoveryService queries a provider's model-listing endpoint and
// normalizes the heterogeneous JSON response into a flat list of model ids.
// One generic algorithm, parameterized entirely by the provider descriptor:
// adding a provider never adds code here.
type ModelDiscoveryService struct {
	initialized bool
	httpService *HTTPRequestService
}

// NewModelDiscoveryService creates a discovery service on top of the given
// HTTP request service.
func NewModelDiscoveryService(httpService *HTTPRequestService) *ModelDiscoveryService {
	return &ModelDiscoveryService{
		initialized: false,
		httpService: httpService,
	}
}

// Name returns the service name "model_discovery" for registration.
func (m *ModelDiscoveryService) Name() string {
	return "model_discovery"
}

// Initialize sets up the ModelDiscoveryService for operation.
func (m *ModelDiscoveryService) Initialize() error {
	if m.httpService == nil {
		return fmt.Errorf("model discovery service requires an http request service")
	}
	m.initialized = true
	return nil
}

// FetchModels performs a single discovery round-trip against the descriptor's
// models endpoint and returns the model ids in the provider's response order.
// Duplicates are preserved: duplicate ids may legitimately denote distinct
// backing deployments for some providers. Failures map onto the typed errors
// in pkg/types and are never retried here.
func (m *ModelDiscoveryService) FetchModels(ctx context.Context, spec types.ProviderSpec, credential string) ([]string, error) {
	if !m.initialized {
		return nil, fmt.Errorf("model discovery service not initialized")
	}

	if spec.AuthRequired && credential == "" {
		return nil, types.MissingCredentialError{Provider: spec.Name}
	}

	url := spec.ModelsURL()
	headers := m.buildHeaders(spec, credential)

	logger.Debug("Fetching models", "provider", spec.Name, "url", url)

	resp, err := m.httpService.Get(ctx, url, headers)
	if err != nil {
		return nil, types.ProviderRequestError{Provider: spec.Name, URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.ProviderRequestError{Provider: spec.Name, URL: url, StatusCode: resp.StatusCode}
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, types.ProviderResponseError{
			Provider: spec.Name,
			Message:  fmt.Sprintf("response body is not valid JSON: %v", err),
		}
	}

	entries, err := resolveResponsePath(spec.Name, body, spec.ModelsResponsePath)
	if err != nil {
		return nil, err
	}

	models := make([]string, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			// Tolerate stray scalars inside an otherwise usable list
			continue
		}
		id, ok := obj[spec.ModelIDKey].(string)
		if !ok || id == "" {
			// A single malformed entry should not fail the whole catalog
			continue
		}
		models = append(models, id)
	}

	if len(models) == 0 {
		return nil, types.ProviderResponseError{
			Provider: spec.Name,
			Path:     spec.ModelsResponsePath,
			Message:  fmt.Sprintf("no models found: no entry carried a %q field", spec.ModelIDKey),
		}
	}

	logger.Debug("Models fetched", "provider", spec.Name, "count", len(models))
	return models, nil
}

// buildHeaders constructs the request headers for a discovery call. No
// authentication header is sent when the descriptor does not require a
// credential, even if one was supplied.
func (m *ModelDiscoveryService) buildHeaders(spec types.ProviderSpec, credential string) map[string]string {
	headers := map[string]string{
		"Accept": "application/json",
	}
	for key, value := range spec.Headers {
		headers[key] = value
	}

	if spec.AuthRequired {
		value := credential
		if spec.AuthHeaderPrefix != "" {
			value = spec.AuthHeaderPrefix + " " + credential
		}
		headers[spec.EffectiveAuthHeader()] = value
	}

	return headers
}

// resolveResponsePath walks the dot-separated key path into the parsed body
// and returns the model-entry list found there. An empty path means the body
// itself is the list.
func resolveResponsePath(provider string, body any, path string) ([]any, error) {
	current := body
	if path != "" {
		for _, key := range strings.Split(path, ".") {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, types.ProviderResponseError{
					Provider: provider,
					Path:     path,
					Expected: "object",
					Actual:   describeJSONValue(current),
					Message:  fmt.Sprintf("cannot descend into key %q", key),
				}
			}
			next, exists := obj[key]
			if !exists {
				return nil, types.ProviderResponseError{
					Provider: provider,
					Path:     path,
					Expected: "list",
					Actual:   fmt.Sprintf("missing key %q", key),
				}
			}
			current = next
		}
	}

	list, ok := current.([]any)
	if !ok {
		return nil, types.ProviderResponseError{
			Provider: provider,
			Path:     path,
			Expected: "list",
			Actual:   describeJSONValue(current),
		}
	}

	return list, nil
}

// describeJSONValue names a decoded JSON value's shape for error messages.
func describeJSONValue(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
