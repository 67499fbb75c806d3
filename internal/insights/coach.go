package insights

import (
	"context"
	"errors"
	"log"
)

type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Result is the outcome of an insight request. A fallback result carries
// the rule-based insight and the reason the AI answer was not used.
type Result struct {
	Source  Source  `json:"source"`
	Reason  string  `json:"reason,omitempty"`
	Model   string  `json:"model,omitempty"`
	Insight Insight `json:"insight"`
}

func (r Result) IsFallback() bool { return r.Source == SourceFallback }

type Coach struct {
	provider Provider
}

func NewCoach(provider Provider) *Coach {
	return &Coach{provider: provider}
}

// Generate asks the provider for coaching text and falls back to the
// rule-based insight when the call or its validation fails.
func (c *Coach) Generate(ctx context.Context, snap ProfileSnapshot) Result {
	resp, err := c.provider.Generate(ctx, SystemPrompt(), BuildUserPrompt(snap))
	if err != nil {
		log.Printf("[insights] provider failed for %s profile: %v", snap.Dominant, err)
		return fallback(snap, reasonFor(err))
	}

	insight, err := ParseInsight(resp.Content)
	if err != nil {
		log.Printf("[insights] rejected %s response: %v", resp.Model, err)
		return fallback(snap, "invalid_response")
	}

	log.Printf("[insights] generated with %s (%d in / %d out tokens)", resp.Model, resp.PromptTokens, resp.OutputTokens)
	return Result{Source: SourceAI, Model: resp.Model, Insight: *insight}
}

func fallback(snap ProfileSnapshot, reason string) Result {
	return Result{Source: SourceFallback, Reason: reason, Insight: FallbackInsight(snap.Dominant)}
}

func reasonFor(err error) string {
	var rl *ErrRateLimit
	var down *ErrProviderUnavailable
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &down):
		return "provider_unavailable"
	default:
		return "provider_error"
	}
}
