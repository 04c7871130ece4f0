package service

import (
	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/llm"
	"github.com/GoPolymarket/yieldgate/internal/market"
)

// Services bundles the orchestrators shared by the HTTP server and the CLI.
type Services struct {
	Market          *market.MarketService
	Recommendations *RecommendationService
	Analysis        *AnalysisService
	Strategies      *StrategyService
}

// NewServices wires the orchestrators from cfg. usage may be nil to disable
// daily provider quotas.
func NewServices(cfg *config.Config, usage llm.UsageRepo) *Services {
	marketSvc := market.NewMarketService(cfg.Sources)
	chain := llm.NewChain(usage, llm.MembersFromConfig(cfg.Providers)...)
	return &Services{
		Market:          marketSvc,
		Recommendations: NewRecommendationService(chain, NewSynthesizer(marketSvc)),
		Analysis:        NewAnalysisService(marketSvc),
		Strategies:      NewStrategyService(),
	}
}
