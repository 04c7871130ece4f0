package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/llm"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/GoPolymarket/yieldgate/internal/pkg/metrics"
)

// RecommendationService runs the provider chain and falls back to the
// synthesizer when no provider produces usable output.
type RecommendationService struct {
	chain *llm.Chain
	synth *Synthesizer
	now   func() time.Time
}

func NewRecommendationService(chain *llm.Chain, synth *Synthesizer) *RecommendationService {
	if chain == nil {
		chain = llm.NewChain(nil)
	}
	return &RecommendationService{chain: chain, synth: synth, now: time.Now}
}

// Providers returns the names of the providers taking part in the chain.
func (s *RecommendationService) Providers() []string {
	return s.chain.Names()
}

func (s *RecommendationService) Generate(ctx context.Context, req model.RecommendationRequest) *model.RecommendationResponse {
	balance := model.ParseBalance(string(req.PortfolioBalance))
	log := logger.With("wallet", req.WalletAddress)

	var (
		recs   []model.StrategyRecommendation
		source string
	)
	res, err := s.chain.Run(ctx, llm.SystemPrompt, llm.BuildPrompt(req))
	switch {
	case err == nil:
		recs, source = res.Recommendations, res.Source
	case errors.Is(err, llm.ErrNoProviders):
		log.Info("no AI providers configured, using fallback")
	default:
		log.Warn("AI providers exhausted, using fallback", "error", err)
	}
	if recs == nil {
		recs = s.synth.Synthesize(ctx, balance)
		source = FallbackSource
	}
	metrics.RecommendationsServed.WithLabelValues(source).Inc()

	totalBalance := strings.TrimSpace(string(req.PortfolioBalance))
	if totalBalance == "" {
		totalBalance = balance.String()
	}
	return &model.RecommendationResponse{
		Success:         true,
		Recommendations: recs,
		Metadata: model.RecommendationMetadata{
			Timestamp:      s.now().UTC(),
			WalletAnalyzed: req.WalletAddress,
			TotalBalance:   totalBalance,
			RiskProfile:    req.Risk(),
			AISource:       source,
		},
	}
}
