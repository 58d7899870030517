// Package types defines the core data structures for modelcast's provider
// management: declarative provider descriptors, the resolved provider
// registry, and the error taxonomy shared between the discovery subsystem and
// the CLI layer.
package types

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// DefaultAuthHeader is the header used for credentials when a descriptor does
// not name a provider-specific one.
const DefaultAuthHeader = "Authorization"

// ProviderSpec is a declarative description of how to talk to one LLM
// provider's model-listing endpoint. Adding a provider is a pure data change:
// one generic algorithm interprets every spec.
type ProviderSpec struct {
	// Name is the unique registry key for this provider (case-sensitive).
	Name string `yaml:"name" toml:"name" json:"name"`

	// DisplayName is a human-readable name shown in listings.
	DisplayName string `yaml:"display_name,omitempty" toml:"display_name,omitempty" json:"display_name,omitempty"`

	// BaseURL is the absolute http(s) origin plus path prefix of the API
	// (e.g. "https://api.openai.com/v1").
	BaseURL string `yaml:"base_url" toml:"base_url" json:"base_url"`

	// ModelsEndpoint is the path, relative to BaseURL, that returns the
	// model catalog (e.g. "/models").
	ModelsEndpoint string `yaml:"models_endpoint" toml:"models_endpoint" json:"models_endpoint"`

	// ModelsResponsePath locates the model-entry list inside the JSON
	// response body as a dot-separated sequence of key lookups
	// (e.g. "data" or "result.models"). Empty means the body itself is
	// the list.
	ModelsResponsePath string `yaml:"models_response_path,omitempty" toml:"models_response_path,omitempty" json:"models_response_path,omitempty"`

	// ModelIDKey is the field within each model entry holding its
	// identifier (e.g. "id", "name").
	ModelIDKey string `yaml:"model_id_key" toml:"model_id_key" json:"model_id_key"`

	// AuthRequired reports whether discovery calls need a credential.
	// When false no authentication header is ever sent, even if a
	// credential value happens to be available.
	AuthRequired bool `yaml:"auth_required,omitempty" toml:"auth_required,omitempty" json:"auth_required,omitempty"`

	// AuthHeader is the header the credential is sent in. Defaults to
	// "Authorization" when empty.
	AuthHeader string `yaml:"auth_header,omitempty" toml:"auth_header,omitempty" json:"auth_header,omitempty"`

	// AuthHeaderPrefix is prepended to the credential with a single space
	// (e.g. "Bearer"). Empty means the credential is sent verbatim.
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty" toml:"auth_header_prefix,omitempty" json:"auth_header_prefix,omitempty"`

	// Headers contains additional static headers required by the provider
	// (e.g. "anthropic-version").
	Headers map[string]string `yaml:"headers,omitempty" toml:"headers,omitempty" json:"headers,omitempty"`

	// ClientType selects the chat client implementation for this provider.
	// Supported: "openai", "openai-compatible", "anthropic", "gemini".
	// Discovery never uses it.
	ClientType string `yaml:"client_type,omitempty" toml:"client_type,omitempty" json:"client_type,omitempty"`

	// Description provides a brief description of the provider endpoint.
	Description string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
}

// ProviderSpecFile wraps ProviderSpec for unmarshaling one embedded builtin
// descriptor YAML file.
type ProviderSpecFile struct {
	ProviderSpec `yaml:",inline"`
}

// EffectiveAuthHeader returns the header name credentials are sent in.
func (p ProviderSpec) EffectiveAuthHeader() string {
	if p.AuthHeader != "" {
		return p.AuthHeader
	}
	return DefaultAuthHeader
}

// ModelsURL joins BaseURL and ModelsEndpoint with exactly one separating
// slash, regardless of trailing/leading slashes on either field.
func (p ProviderSpec) ModelsURL() string {
	base := strings.TrimRight(p.BaseURL, "/")
	endpoint := strings.TrimLeft(p.ModelsEndpoint, "/")
	if endpoint == "" {
		return base
	}
	return base + "/" + endpoint
}

// Validate checks the descriptor invariants: required fields present and
// BaseURL a syntactically valid http(s) URL.
func (p ProviderSpec) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ConfigValidationError{Field: "name", Message: "provider name must not be empty"}
	}
	if p.BaseURL == "" {
		return ConfigValidationError{Provider: p.Name, Field: "base_url", Message: "base_url is required"}
	}
	parsed, err := url.Parse(p.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ConfigValidationError{
			Provider: p.Name,
			Field:    "base_url",
			Message:  fmt.Sprintf("base_url %q must be a complete http(s) URL (e.g. https://api.openai.com/v1)", p.BaseURL),
		}
	}
	if p.ModelsEndpoint == "" {
		return ConfigValidationError{Provider: p.Name, Field: "models_endpoint", Message: "models_endpoint is required"}
	}
	if strings.TrimSpace(p.ModelIDKey) == "" {
		return ConfigValidationError{Provider: p.Name, Field: "model_id_key", Message: "model_id_key is required"}
	}
	return nil
}

// ProviderRegistry is the resolved, validated, ordered set of provider
// descriptors for one process run. It is built once at startup and immutable
// afterwards.
type ProviderRegistry struct {
	names []string
	specs map[string]ProviderSpec
}

// NewProviderRegistry builds a registry from specs in the given order.
// Ordering and duplicate handling are the resolver's responsibility; this
// constructor only indexes.
func NewProviderRegistry(specs []ProviderSpec) *ProviderRegistry {
	r := &ProviderRegistry{
		names: make([]string, 0, len(specs)),
		specs: make(map[string]ProviderSpec, len(specs)),
	}
	for _, spec := range specs {
		if _, exists := r.specs[spec.Name]; !exists {
			r.names = append(r.names, spec.Name)
		}
		r.specs[spec.Name] = spec
	}
	return r
}

// Names returns the provider names in registry order.
func (r *ProviderRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// SortedNames returns the provider names in lexical order.
func (r *ProviderRegistry) SortedNames() []string {
	out := r.Names()
	sort.Strings(out)
	return out
}

// Get returns the descriptor registered under name.
func (r *ProviderRegistry) Get(name string) (ProviderSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Len returns the number of registered providers.
func (r *ProviderRegistry) Len() int {
	return len(r.names)
}
