package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"modelcast/internal/logger"
	"modelcast/pkg/types"
)

// OpenAICompatibleClient implements the LLMClient interface for any provider
// that speaks the OpenAI Chat Completions API: OpenRouter, Moonshot, local
// Ollama, and arbitrary user-configured endpoints.
type OpenAICompatibleClient struct {
	providerName string
	apiKey       string
	baseURL      string
	headers      map[string]string
	endpoint     string
	httpClient   *http.Client
}

// OpenAICompatibleConfig holds configuration for the OpenAI-compatible client.
type OpenAICompatibleConfig struct {
	ProviderName string
	APIKey       string
	BaseURL      string
	Headers      map[string]string
	Endpoint     string // Custom endpoint path (defaults to "/chat/completions")
}

// ChatCompletionRequest represents the request payload for OpenAI-compatible chat completions.
type ChatCompletionRequest struct {
	Model            string                  `json:"model"`
	Messages         []ChatCompletionMessage `json:"messages"`
	Temperature      *float64                `json:"temperature,omitempty"`
	MaxTokens        *int                    `json:"max_tokens,omitempty"`
	TopP             *float64                `json:"top_p,omitempty"`
	FrequencyPenalty *float64                `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64                `json:"presence_penalty,omitempty"`
}

// ChatCompletionMessage represents a message in the chat completion request.
type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse represents the response from OpenAI-compatible chat completions.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Error   *ChatCompletionError   `json:"error,omitempty"`
}

// ChatCompletionChoice represents a choice in the chat completion response.
type ChatCompletionChoice struct {
	Index        int                    `json:"index"`
	Message      *ChatCompletionMessage `json:"message,omitempty"`
	FinishReason *string                `json:"finish_reason"`
}

// ChatCompletionError represents an error response.
type ChatCompletionError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewOpenAICompatibleClient creates a new OpenAI-compatible client.
func NewOpenAICompatibleClient(config OpenAICompatibleConfig) *OpenAICompatibleClient {
	// Consistent URL building needs a base without a trailing slash
	baseURL := strings.TrimSuffix(config.BaseURL, "/")

	headers := make(map[string]string)
	for k, v := range config.Headers {
		headers[k] = v
	}

	providerName := config.ProviderName
	if providerName == "" {
		providerName = "openai-compatible"
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = "/chat/completions"
	}

	return &OpenAICompatibleClient{
		providerName: providerName,
		apiKey:       config.APIKey,
		baseURL:      baseURL,
		headers:      headers,
		endpoint:     endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GetProviderName returns the provider name for this client.
func (c *OpenAICompatibleClient) GetProviderName() string {
	return c.providerName
}

// IsConfigured returns true if the client has a base URL to talk to.
func (c *OpenAICompatibleClient) IsConfigured() bool {
	return c.baseURL != ""
}

// SendChatCompletion sends a chat completion request to the OpenAI-compatible API.
func (c *OpenAICompatibleClient) SendChatCompletion(session *types.ChatSession, modelConfig *types.ModelConfig) (string, error) {
	logger.Debug("OpenAI-compatible SendChatCompletion starting", "model", modelConfig.BaseModel, "baseURL", c.baseURL)

	if !c.IsConfigured() {
		return "", fmt.Errorf("OpenAI-compatible client not configured: missing base URL")
	}

	messages := c.convertMessages(session)

	if session.SystemPrompt != "" {
		systemMsg := ChatCompletionMessage{
			Role:    "system",
			Content: session.SystemPrompt,
		}
		messages = append([]ChatCompletionMessage{systemMsg}, messages...)
	}

	request := ChatCompletionRequest{
		Model:    modelConfig.BaseModel,
		Messages: messages,
	}
	c.applyModelParameters(&request, modelConfig)

	response, err := c.sendHTTPRequest(c.endpoint, request)
	if err != nil {
		return "", fmt.Errorf("openai-compatible request failed: %w", err)
	}

	var chatResponse ChatCompletionResponse
	if err := json.Unmarshal(response, &chatResponse); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResponse.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResponse.Error.Message)
	}

	if len(chatResponse.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	if chatResponse.Choices[0].Message == nil {
		return "", fmt.Errorf("no message in response choice")
	}

	content := chatResponse.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	logger.Debug("OpenAI-compatible response received", "content_length", len(content))
	return content, nil
}

// convertMessages converts session messages to OpenAI wire format.
func (c *OpenAICompatibleClient) convertMessages(session *types.ChatSession) []ChatCompletionMessage {
	messages := make([]ChatCompletionMessage, 0, len(session.Messages))
	for _, msg := range session.Messages {
		switch msg.Role {
		case "user", "assistant", "system":
			messages = append(messages, ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
		default:
			continue
		}
	}
	return messages
}

// applyModelParameters applies model configuration parameters to the request.
func (c *OpenAICompatibleClient) applyModelParameters(request *ChatCompletionRequest, modelConfig *types.ModelConfig) {
	if modelConfig.Parameters == nil {
		return
	}

	if temp, ok := modelConfig.Parameters["temperature"]; ok {
		if tempFloat, ok := temp.(float64); ok {
			request.Temperature = &tempFloat
		}
	}

	if maxTokens, ok := modelConfig.Parameters["max_tokens"]; ok {
		if maxTokensInt, ok := maxTokens.(int); ok {
			request.MaxTokens = &maxTokensInt
		}
	}

	if topP, ok := modelConfig.Parameters["top_p"]; ok {
		if topPFloat, ok := topP.(float64); ok {
			request.TopP = &topPFloat
		}
	}

	if freqPenalty, ok := modelConfig.Parameters["frequency_penalty"]; ok {
		if freqPenaltyFloat, ok := freqPenalty.(float64); ok {
			request.FrequencyPenalty = &freqPenaltyFloat
		}
	}

	if presPenalty, ok := modelConfig.Parameters["presence_penalty"]; ok {
		if presPenaltyFloat, ok := presPenalty.(float64); ok {
			request.PresencePenalty = &presPenaltyFloat
		}
	}
}

// sendHTTPRequest sends a JSON POST to the API and returns the raw body.
func (c *OpenAICompatibleClient) sendHTTPRequest(endpoint string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
