package services

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"modelcast/internal/logger"
	"modelcast/pkg/types"
)

// AnthropicClient implements the LLMClient interface for Anthropic's API.
// It provides lazy initialization of the Anthropic client and handles
// all Anthropic-specific communication logic.
type AnthropicClient struct {
	apiKey  string
	baseURL string
	client  *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client with lazy initialization.
// The actual Anthropic client is created only when the first request is made.
func NewAnthropicClient(apiKey, baseURL string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  nil, // Will be initialized lazily
	}
}

// GetProviderName returns the provider name for this client.
func (c *AnthropicClient) GetProviderName() string {
	return "anthropic"
}

// IsConfigured returns true if the client has a valid API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the Anthropic client if it hasn't been initialized yet.
func (c *AnthropicClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil // Already initialized
	}

	if c.apiKey == "" {
		return fmt.Errorf("anthropic API key not configured")
	}

	options := []option.RequestOption{option.WithAPIKey(c.apiKey)}
	if c.baseURL != "" {
		options = append(options, option.WithBaseURL(c.baseURL))
	}

	client := anthropic.NewClient(options...)
	c.client = &client

	logger.Debug("Anthropic client initialized", "provider", "anthropic")
	return nil
}

// SendChatCompletion sends a chat completion request to Anthropic.
func (c *AnthropicClient) SendChatCompletion(session *types.ChatSession, modelConfig *types.ModelConfig) (string, error) {
	logger.Debug("Anthropic SendChatCompletion starting", "model", modelConfig.BaseModel)

	if err := c.initializeClientIfNeeded(); err != nil {
		return "", fmt.Errorf("failed to initialize Anthropic client: %w", err)
	}

	messages, additionalSystemInstructions := c.convertMessagesToAnthropic(session)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelConfig.BaseModel),
		MaxTokens: 1024, // Default, overridden by parameters if set
		Messages:  messages,
	}

	systemPrompt := session.SystemPrompt
	if additionalSystemInstructions != "" {
		if systemPrompt != "" {
			systemPrompt += "\n\n" + additionalSystemInstructions
		} else {
			systemPrompt = additionalSystemInstructions
		}
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	c.applyModelParameters(&params, modelConfig)

	message, err := c.client.Messages.New(context.Background(), params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("no response content returned")
	}

	var content string
	for _, block := range message.Content {
		content += block.Text
	}

	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	logger.Debug("Anthropic response received", "content_length", len(content))
	return content, nil
}

// convertMessagesToAnthropic converts session messages to Anthropic format.
// Anthropic takes system content out-of-band, so system messages found in the
// conversation are returned separately.
func (c *AnthropicClient) convertMessagesToAnthropic(session *types.ChatSession) ([]anthropic.MessageParam, string) {
	messages := make([]anthropic.MessageParam, 0, len(session.Messages))
	var systemInstructions string

	for _, msg := range session.Messages {
		switch msg.Role {
		case "user":
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case "system":
			if systemInstructions != "" {
				systemInstructions += "\n\n"
			}
			systemInstructions += msg.Content
		default:
			// Skip unknown roles
			continue
		}
	}

	return messages, systemInstructions
}

// applyModelParameters applies model configuration parameters to the Anthropic request.
func (c *AnthropicClient) applyModelParameters(params *anthropic.MessageNewParams, modelConfig *types.ModelConfig) {
	if modelConfig.Parameters == nil {
		return
	}

	if temp, ok := modelConfig.Parameters["temperature"]; ok {
		if tempFloat, ok := temp.(float64); ok {
			params.Temperature = anthropic.Float(tempFloat)
		}
	}

	if maxTokens, ok := modelConfig.Parameters["max_tokens"]; ok {
		if maxTokensInt, ok := maxTokens.(int); ok {
			params.MaxTokens = int64(maxTokensInt)
		}
	}

	if topP, ok := modelConfig.Parameters["top_p"]; ok {
		if topPFloat, ok := topP.(float64); ok {
			params.TopP = anthropic.Float(topPFloat)
		}
	}

	if topK, ok := modelConfig.Parameters["top_k"]; ok {
		if topKInt, ok := topK.(int); ok {
			params.TopK = anthropic.Int(int64(topKInt))
		}
	}
}
