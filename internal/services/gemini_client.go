package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
	"modelcast/internal/logger"
	"modelcast/pkg/types"
)

// GeminiClient implements the LLMClient interface for Google Gemini models.
// The underlying genai client is created lazily on first use.
type GeminiClient struct {
	apiKey string
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey string) *GeminiClient {
	logger.Debug("Creating Gemini client", "has_api_key", apiKey != "")
	return &GeminiClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *GeminiClient) GetProviderName() string {
	return "gemini"
}

// IsConfigured returns true if the client has an API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SendChatCompletion sends a chat completion request to Gemini.
func (c *GeminiClient) SendChatCompletion(session *types.ChatSession, modelConfig *types.ModelConfig) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("gemini client not configured: missing API key")
	}

	ctx := context.Background()
	if err := c.ensureClientInitialized(ctx); err != nil {
		return "", err
	}

	contents := c.convertMessagesToGemini(session)
	config := c.buildGenerationConfig(session, modelConfig)

	logger.Debug("Sending Gemini completion", "model", modelConfig.BaseModel, "messages", len(contents))

	result, err := c.client.Models.GenerateContent(ctx, modelConfig.BaseModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	return c.extractResponseText(result), nil
}

// ensureClientInitialized creates the genai client if it doesn't exist yet.
func (c *GeminiClient) ensureClientInitialized(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client
	return nil
}

// convertMessagesToGemini converts session messages to Gemini content format.
// System messages are handled separately via SystemInstruction, so any system
// messages in the transcript are prefixed and sent with the user role.
func (c *GeminiClient) convertMessagesToGemini(session *types.ChatSession) []*genai.Content {
	contents := make([]*genai.Content, 0, len(session.Messages))

	for _, msg := range session.Messages {
		var role genai.Role
		text := msg.Content

		switch msg.Role {
		case "user":
			role = genai.RoleUser
		case "assistant":
			role = genai.RoleModel
		case "system":
			role = genai.RoleUser
			text = "System: " + text
		default:
			role = genai.RoleUser
		}

		contents = append(contents, genai.NewContentFromText(text, role))
	}

	return contents
}

// buildGenerationConfig builds the Gemini generation config from the model
// configuration and session system prompt.
func (c *GeminiClient) buildGenerationConfig(session *types.ChatSession, modelConfig *types.ModelConfig) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if session.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(session.SystemPrompt, genai.RoleUser)
	}

	if modelConfig.Parameters == nil {
		return config
	}

	if temp, ok := modelConfig.Parameters["temperature"].(float64); ok {
		temp32 := float32(temp)
		config.Temperature = &temp32
	}
	if maxTokens, ok := modelConfig.Parameters["max_tokens"].(int); ok {
		config.MaxOutputTokens = int32(maxTokens)
	} else if maxTokens, ok := modelConfig.Parameters["max_tokens"].(float64); ok {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if topP, ok := modelConfig.Parameters["top_p"].(float64); ok {
		topP32 := float32(topP)
		config.TopP = &topP32
	}

	return config
}

// extractResponseText concatenates the text parts of the first-class response
// candidates, skipping thought parts.
func (c *GeminiClient) extractResponseText(result *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text == "" || part.Thought {
				continue
			}
			builder.WriteString(part.Text)
		}
	}
	return builder.String()
}
