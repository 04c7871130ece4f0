package llm

import (
	"context"
)

// Provider is one AI backend in the fallback chain. Complete makes a single
// attempt and returns the raw model text; it does not interpret it.
type Provider interface {
	// Name is the config key, e.g. "openai".
	Name() string
	// Label is reported to callers as the recommendation source.
	Label() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const (
	LabelRapidAPI  = "RapidAPI ChatGPT"
	LabelOpenAI    = "OpenAI GPT-3.5"
	LabelAnthropic = "Anthropic Claude"
)
