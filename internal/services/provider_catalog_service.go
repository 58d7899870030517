package services

import (
	"fmt"

	"modelcast/internal/data/embedded"
	"modelcast/pkg/types"

	"gopkg.in/yaml.v3"
)

// ProviderCatalogService loads the builtin provider descriptors shipped with
// modelcast from embedded YAML files. It parses them once at initialization
// and serves the result read-only for the rest of the process.
type ProviderCatalogService struct {
	initialized bool
	builtins    []types.ProviderSpec
}

// NewProviderCatalogService creates a new ProviderCatalogService instance.
func NewProviderCatalogService() *ProviderCatalogService {
	return &ProviderCatalogService{
		initialized: false,
	}
}

// Name returns the service name "provider_catalog" for registration.
func (p *ProviderCatalogService) Name() string {
	return "provider_catalog"
}

// Initialize parses every embedded descriptor and validates it.
func (p *ProviderCatalogService) Initialize() error {
	specs := make([]types.ProviderSpec, 0, len(embedded.BuiltinProviderData))
	for _, data := range embedded.BuiltinProviderData {
		spec, err := p.loadProviderFile(data)
		if err != nil {
			return fmt.Errorf("failed to load builtin provider descriptor: %w", err)
		}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("builtin provider descriptor invalid: %w", err)
		}
		specs = append(specs, spec)
	}

	p.builtins = specs
	p.initialized = true
	return nil
}

// BuiltinProviders returns the builtin descriptors in embedding order.
func (p *ProviderCatalogService) BuiltinProviders() ([]types.ProviderSpec, error) {
	if !p.initialized {
		return nil, fmt.Errorf("provider catalog service not initialized")
	}

	out := make([]types.ProviderSpec, len(p.builtins))
	copy(out, p.builtins)
	return out, nil
}

// GetBuiltinProvider returns the builtin descriptor registered under name.
func (p *ProviderCatalogService) GetBuiltinProvider(name string) (types.ProviderSpec, error) {
	if !p.initialized {
		return types.ProviderSpec{}, fmt.Errorf("provider catalog service not initialized")
	}

	for _, spec := range p.builtins {
		if spec.Name == name {
			return spec, nil
		}
	}

	return types.ProviderSpec{}, fmt.Errorf("builtin provider %q not found", name)
}

// loadProviderFile parses an individual provider descriptor from embedded YAML data.
func (p *ProviderCatalogService) loadProviderFile(data []byte) (types.ProviderSpec, error) {
	var providerFile types.ProviderSpecFile

	if err := yaml.Unmarshal(data, &providerFile); err != nil {
		return types.ProviderSpec{}, fmt.Errorf("failed to parse provider file: %w", err)
	}

	return providerFile.ProviderSpec, nil
}
