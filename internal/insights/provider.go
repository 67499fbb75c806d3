package insights

import (
	"context"
	"fmt"
	"time"
)

// Provider is a chat-completion backend.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*ProviderResponse, error)
}

// ProviderResponse holds the raw response content and token usage.
type ProviderResponse struct {
	Content      string
	Model        string
	PromptTokens int
	OutputTokens int
}

type ProviderConfig struct {
	Name            string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	GeminiAPIKey    string
	GeminiModel     string
}

// NewProvider builds the configured provider wrapped with one retry for
// transient failures.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Name {
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "mock", "":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown insights provider %q", cfg.Name)
	}
	if err != nil {
		return nil, err
	}
	return WithRetry(p, 2, time.Second), nil
}

// ── Errors ──────────────────────────────────────────────

// ErrRateLimit indicates the provider answered 429.
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string { return fmt.Sprintf("rate limited: %v", e.Err) }
func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("insights provider unavailable: %v", e.Err)
	}
	return "insights provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }
