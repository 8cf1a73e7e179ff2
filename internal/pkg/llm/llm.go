// Package llm wraps the chat completion providers behind the AI assistant.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    string
	Content string
}

// Provider generates the next assistant reply for a conversation
type Provider interface {
	Name() string
	Model() string
	Chat(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}

// Config selects and configures a provider
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the provider named in cfg. An empty or "none" provider yields a disabled provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return Disabled{}, nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, &http.Client{Timeout: cfg.Timeout})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
