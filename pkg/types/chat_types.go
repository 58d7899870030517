package types

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a single message in a chat exchange.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "system", "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession holds the conversation state for one completion exchange.
// The ask command builds a throwaway session with a single user message;
// the type still carries history so richer flows can reuse the clients.
type ChatSession struct {
	ID           string    `json:"id"`
	SystemPrompt string    `json:"system_prompt"`
	Messages     []Message `json:"messages"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewChatSession creates a session with a generated ID.
func NewChatSession(systemPrompt string) *ChatSession {
	return &ChatSession{
		ID:           uuid.NewString(),
		SystemPrompt: systemPrompt,
		CreatedAt:    time.Now(),
	}
}

// AddUserMessage appends a user message to the session history.
func (s *ChatSession) AddUserMessage(content string) {
	s.Messages = append(s.Messages, Message{
		ID:        uuid.NewString(),
		Role:      "user",
		Content:   content,
		Timestamp: time.Now(),
	})
}

// ModelConfig selects a concrete model for a completion call, together with
// optional sampling parameters. BaseModel is a model id exactly as reported
// by discovery.
type ModelConfig struct {
	Provider   string         `json:"provider"`
	BaseModel  string         `json:"base_model"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// StreamChunk represents a single chunk of a streaming completion response.
type StreamChunk struct {
	Content string
	Done    bool
	Error   error
}

// LLMClient abstracts the per-provider chat implementations behind a common
// completion interface.
type LLMClient interface {
	// SendChatCompletion sends a chat completion request and returns the
	// full response text.
	SendChatCompletion(session *ChatSession, model *ModelConfig) (string, error)

	// GetProviderName returns the client implementation name
	// (e.g. "openai", "anthropic").
	GetProviderName() string

	// IsConfigured returns true if the client can make requests.
	IsConfigured() bool
}
