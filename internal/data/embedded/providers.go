// Package embedded provides access to the builtin provider descriptor files.
package embedded

import _ "embed"

// OpenAIProviderData contains the embedded OpenAI provider descriptor YAML data.
//
//go:embed openai.yaml
var OpenAIProviderData []byte

// AnthropicProviderData contains the embedded Anthropic provider descriptor YAML data.
//
//go:embed anthropic.yaml
var AnthropicProviderData []byte

// GeminiProviderData contains the embedded Google Gemini provider descriptor YAML data.
//
//go:embed gemini.yaml
var GeminiProviderData []byte

// OpenRouterProviderData contains the embedded OpenRouter provider descriptor YAML data.
//
//go:embed openrouter.yaml
var OpenRouterProviderData []byte

// MoonshotProviderData contains the embedded Moonshot provider descriptor YAML data.
//
//go:embed moonshot.yaml
var MoonshotProviderData []byte

// OllamaProviderData contains the embedded local Ollama provider descriptor YAML data.
//
//go:embed ollama.yaml
var OllamaProviderData []byte

// BuiltinProviderData lists every embedded descriptor in registry order.
var BuiltinProviderData = [][]byte{
	OpenAIProviderData,
	AnthropicProviderData,
	GeminiProviderData,
	OpenRouterProviderData,
	MoonshotProviderData,
	OllamaProviderData,
}
