package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/GoPolymarket/yieldgate/internal/pkg/metrics"
)

// UsageRepo counts provider attempts per UTC day.
type UsageRepo interface {
	GetDailyUsage(ctx context.Context, provider string) (int, error)
	AddDailyUsage(ctx context.Context, provider string, n int) error
}

// Member is a provider plus its per-attempt budget.
type Member struct {
	Provider   Provider
	Timeout    time.Duration
	DailyLimit int
}

// Result is a successful chain run.
type Result struct {
	Recommendations []model.StrategyRecommendation
	Source          string
	Provider        string
}

// Attempt records why one provider did not produce a result.
type Attempt struct {
	Provider string
	Reason   string
}

var (
	ErrNoProviders = errors.New("no AI providers configured")
	ErrExhausted   = errors.New("all AI providers failed")
)

// ExhaustedError lists every failed attempt. It unwraps to ErrExhausted.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Provider+": "+a.Reason)
	}
	return fmt.Sprintf("%s (%s)", ErrExhausted, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() error { return ErrExhausted }

// Chain tries providers strictly in order and stops at the first one whose
// output yields at least one usable recommendation.
type Chain struct {
	members []Member
	usage   UsageRepo
}

func NewChain(usage UsageRepo, members ...Member) *Chain {
	return &Chain{members: members, usage: usage}
}

// Names returns the configured provider names in priority order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.members))
	for _, m := range c.members {
		names = append(names, m.Provider.Name())
	}
	return names
}

func (c *Chain) Len() int { return len(c.members) }

func (c *Chain) Run(ctx context.Context, system, prompt string) (*Result, error) {
	if len(c.members) == 0 {
		return nil, ErrNoProviders
	}

	var attempts []Attempt
	for _, m := range c.members {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Provider: m.Provider.Name(), Reason: "request cancelled"})
			break
		}

		name := m.Provider.Name()
		if c.quotaExhausted(ctx, m) {
			metrics.ProviderAttempts.WithLabelValues(name, "skipped").Inc()
			logger.Info("provider skipped", "provider", name, "outcome", "skipped", "reason", "daily quota exhausted")
			attempts = append(attempts, Attempt{Provider: name, Reason: "daily quota exhausted"})
			continue
		}

		recs, outcome, err := c.attempt(ctx, m, system, prompt)
		metrics.ProviderAttempts.WithLabelValues(name, outcome).Inc()
		if err != nil {
			logger.Warn("provider attempt failed", "provider", name, "outcome", outcome, "reason", err.Error())
			attempts = append(attempts, Attempt{Provider: name, Reason: err.Error()})
			continue
		}

		logger.Info("provider attempt succeeded", "provider", name, "outcome", outcome, "recommendations", len(recs))
		return &Result{Recommendations: recs, Source: m.Provider.Label(), Provider: name}, nil
	}
	return nil, &ExhaustedError{Attempts: attempts}
}

func (c *Chain) attempt(ctx context.Context, m Member, system, prompt string) ([]model.StrategyRecommendation, string, error) {
	attemptCtx := ctx
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	c.recordUsage(ctx, m.Provider.Name())

	raw, err := m.Provider.Complete(attemptCtx, system, prompt)
	if err != nil {
		return nil, "transport_error", err
	}
	entries, err := ExtractArray(raw)
	if err != nil {
		return nil, "extract_error", err
	}
	recs := Normalize(entries)
	if len(recs) == 0 {
		return nil, "extract_error", apperrors.NewProviderOutput("provider output had no usable entries")
	}
	return recs, "success", nil
}

// quotaExhausted never blocks on a broken usage store.
func (c *Chain) quotaExhausted(ctx context.Context, m Member) bool {
	if c.usage == nil || m.DailyLimit <= 0 {
		return false
	}
	used, err := c.usage.GetDailyUsage(ctx, m.Provider.Name())
	if err != nil {
		logger.Warn("provider usage lookup failed", "provider", m.Provider.Name(), "error", err)
		return false
	}
	return used >= m.DailyLimit
}

func (c *Chain) recordUsage(ctx context.Context, name string) {
	if c.usage == nil {
		return
	}
	if err := c.usage.AddDailyUsage(ctx, name, 1); err != nil {
		logger.Warn("provider usage update failed", "provider", name, "error", err)
	}
}
