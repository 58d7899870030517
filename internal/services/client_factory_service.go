package services

import (
	"fmt"
	"sync"

	"modelcast/internal/logger"
	"modelcast/pkg/types"
)

// ClientFactoryService creates and caches LLM clients keyed by provider
// client type and credential, so repeated completions against the same
// provider reuse one client.
type ClientFactoryService struct {
	initialized bool
	mu          sync.Mutex
	clients     map[string]types.LLMClient
}

// NewClientFactoryService creates a new client factory service.
func NewClientFactoryService() *ClientFactoryService {
	return &ClientFactoryService{
		clients: make(map[string]types.LLMClient),
	}
}

// Name returns the service name.
func (f *ClientFactoryService) Name() string {
	return "client_factory"
}

// Initialize sets up the client factory service.
func (f *ClientFactoryService) Initialize() error {
	f.initialized = true
	logger.ServiceOperation("client_factory", "initialized")
	return nil
}

// GetClientForProvider returns an LLM client for the given provider spec,
// dispatching on the descriptor's client type. The credential may be empty for
// providers that do not require authentication.
func (f *ClientFactoryService) GetClientForProvider(spec types.ProviderSpec, credential string) (types.LLMClient, error) {
	if !f.initialized {
		return nil, fmt.Errorf("client factory service not initialized")
	}

	clientType := spec.ClientType
	if clientType == "" {
		clientType = "openai-compatible"
	}

	key := clientType + "|" + spec.Name + "|" + credential

	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[key]; ok {
		return client, nil
	}

	client, err := f.newClient(clientType, spec, credential)
	if err != nil {
		return nil, err
	}

	logger.Debug("Created LLM client", "provider", spec.Name, "client_type", clientType)
	f.clients[key] = client
	return client, nil
}

func (f *ClientFactoryService) newClient(clientType string, spec types.ProviderSpec, credential string) (types.LLMClient, error) {
	switch clientType {
	case "openai":
		return NewOpenAIClient(credential, spec.BaseURL), nil
	case "anthropic":
		return NewAnthropicClient(credential, spec.BaseURL), nil
	case "gemini":
		return NewGeminiClient(credential), nil
	case "openai-compatible":
		return NewOpenAICompatibleClient(OpenAICompatibleConfig{
			ProviderName: spec.Name,
			BaseURL:      spec.BaseURL,
			APIKey:       credential,
			Headers:      spec.Headers,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported client type %q for provider %q", clientType, spec.Name)
	}
}
