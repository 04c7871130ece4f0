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

// RapidAPIProvider calls the RapidAPI ChatGPT proxy. The request body is a
// bare array of chat messages and the answer comes back in "text".
type RapidAPIProvider struct {
	http *httpx.Client
	cfg  config.ProviderConfig
}

func NewRapidAPIProvider(cfg config.ProviderConfig) *RapidAPIProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RapidAPIProvider{http: httpx.New(timeout), cfg: cfg}
}

func (p *RapidAPIProvider) Name() string  { return config.ProviderRapidAPI }
func (p *RapidAPIProvider) Label() string { return LabelRapidAPI }

type rapidMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type rapidResponse struct {
	Text string `json:"text"`
}

func (p *RapidAPIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := httpx.Request{
		Method: http.MethodPost,
		URL:    p.cfg.BaseURL,
		Headers: map[string]string{
			"x-rapidapi-host": p.cfg.Host,
			"x-rapidapi-key":  p.cfg.APIKey,
		},
		Body: []rapidMessage{
			{Content: system, Role: "system"},
			{Content: prompt, Role: "user"},
		},
	}

	var resp rapidResponse
	if err := p.http.DoJSON(ctx, req, &resp); err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", apperrors.NewProviderOutput("rapidapi response has no text field")
	}
	return text, nil
}
