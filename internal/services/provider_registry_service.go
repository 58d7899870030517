package services

import (
	"context"
	"fmt"

	"modelcast/internal/logger"
	"modelcast/pkg/types"
)

// ResolveProviders merges the builtin descriptors with user overrides into a
// single validated registry. Pure function: no I/O, deterministic for
// identical inputs.
//
// Merge policy: a user entry with the same name as a builtin replaces the
// builtin wholesale (field-level partial override is not supported, so a
// half-merged descriptor can never exist); a user entry with a new name is
// appended. Duplicate names within one source are a hard validation error;
// duplicates across sources are the override mechanism.
func ResolveProviders(builtin, user []types.ProviderSpec) (*types.ProviderRegistry, error) {
	if err := validateSource("builtin", builtin); err != nil {
		return nil, err
	}
	if err := validateSource("user", user); err != nil {
		return nil, err
	}

	merged := make([]types.ProviderSpec, len(builtin))
	copy(merged, builtin)

	index := make(map[string]int, len(builtin))
	for i, spec := range builtin {
		index[spec.Name] = i
	}

	for _, spec := range user {
		if i, exists := index[spec.Name]; exists {
			// Wholesale replacement keeps overridden descriptors
			// internally consistent and keeps registry order stable.
			merged[i] = spec
			continue
		}
		index[spec.Name] = len(merged)
		merged = append(merged, spec)
	}

	return types.NewProviderRegistry(merged), nil
}

// validateSource checks every descriptor in one source and rejects duplicate
// names within it.
func validateSource(source string, specs []types.ProviderSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return err
		}
		if _, dup := seen[spec.Name]; dup {
			return types.ConfigValidationError{
				Provider: spec.Name,
				Message:  fmt.Sprintf("duplicate provider name in %s configuration", source),
			}
		}
		seen[spec.Name] = struct{}{}
	}
	return nil
}

// ProviderRegistryService is the entry point the CLI layer talks to. It
// resolves the provider registry once at initialization, keeps it immutable
// for the process lifetime, and delegates per-call model discovery. Model
// lists are never cached: catalogs change over a provider's lifetime and
// stale results would mislead the user.
type ProviderRegistryService struct {
	initialized bool
	catalog     *ProviderCatalogService
	userConfig  *UserConfigService
	discovery   *ModelDiscoveryService
	registry    *types.ProviderRegistry
}

// NewProviderRegistryService wires the facade over its three collaborators.
func NewProviderRegistryService(catalog *ProviderCatalogService, userConfig *UserConfigService, discovery *ModelDiscoveryService) *ProviderRegistryService {
	return &ProviderRegistryService{
		initialized: false,
		catalog:     catalog,
		userConfig:  userConfig,
		discovery:   discovery,
	}
}

// Name returns the service name "provider_registry" for registration.
func (s *ProviderRegistryService) Name() string {
	return "provider_registry"
}

// Initialize resolves the registry from builtin and user descriptors. A
// validation failure here is fatal to registry construction and must be
// surfaced before any provider is usable.
func (s *ProviderRegistryService) Initialize() error {
	builtin, err := s.catalog.BuiltinProviders()
	if err != nil {
		return fmt.Errorf("failed to load builtin providers: %w", err)
	}

	user, err := s.userConfig.UserProviders()
	if err != nil {
		return fmt.Errorf("failed to load user providers: %w", err)
	}

	registry, err := ResolveProviders(builtin, user)
	if err != nil {
		return err
	}

	s.registry = registry
	s.initialized = true
	logger.Debug("Provider registry resolved", "providers", registry.Len())
	return nil
}

// ProviderNames returns the configured provider names in registry order.
func (s *ProviderRegistryService) ProviderNames() ([]string, error) {
	if !s.initialized {
		return nil, fmt.Errorf("provider registry service not initialized")
	}
	return s.registry.Names(), nil
}

// GetProvider returns the resolved descriptor registered under name.
func (s *ProviderRegistryService) GetProvider(name string) (types.ProviderSpec, error) {
	if !s.initialized {
		return types.ProviderSpec{}, fmt.Errorf("provider registry service not initialized")
	}

	spec, ok := s.registry.Get(name)
	if !ok {
		return types.ProviderSpec{}, types.UnknownProviderError{Provider: name, Known: s.registry.Names()}
	}
	return spec, nil
}

// ListModels fetches the live model catalog for the named provider. The
// registry lookup happens before any network activity, so an unknown name
// never costs a round-trip.
func (s *ProviderRegistryService) ListModels(ctx context.Context, name, credential string) ([]string, error) {
	spec, err := s.GetProvider(name)
	if err != nil {
		return nil, err
	}
	return s.discovery.FetchModels(ctx, spec, credential)
}
