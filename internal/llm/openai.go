package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/GoPolymarket/yieldgate/internal/pkg/httpx"
)

// OpenAIProvider talks to the chat completions endpoint.
type OpenAIProvider struct {
	http *httpx.Client
	cfg  config.ProviderConfig
}

func NewOpenAIProvider(cfg config.ProviderConfig) *OpenAIProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	return &OpenAIProvider{http: httpx.New(timeout), cfg: cfg}
}

func (p *OpenAIProvider) Name() string  { return config.ProviderOpenAI }
func (p *OpenAIProvider) Label() string { return LabelOpenAI }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := httpx.Request{
		Method:  http.MethodPost,
		URL:     strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions",
		Headers: map[string]string{"Authorization": "Bearer " + p.cfg.APIKey},
		Body: chatRequest{
			Model: p.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: prompt},
			},
			MaxTokens: p.cfg.MaxTokens,
		},
	}

	var resp chatResponse
	if err := p.http.DoJSON(ctx, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewProviderOutput("openai returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apperrors.NewProviderOutput("openai returned empty content")
	}
	return text, nil
}
