package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/market"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
)

const (
	LiveDataSource     = "Real APIs (CoinGecko, DeFiLlama, Etherscan)"
	FallbackDataSource = "Fallback (API error)"
)

var bestSectors = []string{"Liquid Staking", "DEX LP", "Lending"}

// AnalysisService computes the market analysis from a fresh snapshot per call.
type AnalysisService struct {
	market market.Provider
	now    func() time.Time
}

func NewAnalysisService(m market.Provider) *AnalysisService {
	return &AnalysisService{market: m, now: time.Now}
}

// Analyze never fails. Missing metrics are defaulted one by one; a fault in
// the fan-out itself returns the static analysis instead.
func (s *AnalysisService) Analyze(ctx context.Context) (resp model.MarketAnalysisResponse) {
	now := s.now().UTC()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("market analysis panicked", "panic", fmt.Sprint(r))
			resp = StaticAnalysis(now)
		}
	}()

	snap, err := market.Collect(ctx, s.market, market.AllMetrics)
	if err != nil {
		logger.Error("market analysis fan-out failed", "error", err)
		return StaticAnalysis(now)
	}
	return model.MarketAnalysisResponse{
		Success:    true,
		Analysis:   BuildAnalysis(snap, now),
		Timestamp:  now,
		DataSource: LiveDataSource,
	}
}

// BuildAnalysis derives the analysis from snap. It is pure apart from now.
func BuildAnalysis(snap model.MarketSnapshot, now time.Time) model.MarketAnalysis {
	change := snap.PriceChange()
	gas := snap.GasPrices()

	return model.MarketAnalysis{
		MarketTrend:    market.MarketTrend(change),
		BestSectors:    append([]string(nil), bestSectors...),
		AvgDeFiAPY:     fmt.Sprintf("%.1f%%", market.AvgDeFiAPY(snap.PoolAPYs())),
		RiskAssessment: riskAssessment(change),
		GasConditions:  market.GasCondition(gas.Standard),
		Recommendation: marketRecommendation(change),
		Confidence:     analysisConfidence(change),
		LastUpdated:    now,
		KeyMetrics: model.KeyMetrics{
			ETHPrice:          market.FormatUSD(snap.ETHPrice()),
			ETHPriceChange24h: market.FormatChange(change),
			TotalValueLocked:  market.FormatMagnitude(snap.TotalTVL()),
			GasPrice:          market.FormatGwei(gas.Standard),
			DominanceIndex:    "High",
		},
	}
}

// StaticAnalysis is served when the live path faults.
func StaticAnalysis(now time.Time) model.MarketAnalysisResponse {
	return model.MarketAnalysisResponse{
		Success: true,
		Analysis: model.MarketAnalysis{
			MarketTrend:    "Moderate",
			BestSectors:    append([]string(nil), bestSectors...),
			AvgDeFiAPY:     "12.4%",
			RiskAssessment: "Moderate",
			GasConditions:  "Normal conditions",
			Recommendation: "Standard DeFi strategies recommended",
			Confidence:     75,
			LastUpdated:    now,
			KeyMetrics: model.KeyMetrics{
				ETHPrice:         "$3,850",
				TotalValueLocked: "$68.2B",
				DominanceIndex:   "High",
			},
		},
		Timestamp:  now,
		DataSource: FallbackDataSource,
	}
}

func riskAssessment(change float64) string {
	if change > 0 {
		return "Moderate-Low"
	}
	return "Moderate-High"
}

func marketRecommendation(change float64) string {
	switch {
	case change > 2:
		return "Favorable conditions for yield farming - bullish momentum detected"
	case change < -2:
		return "Cautious approach recommended - market volatility detected"
	default:
		return "Stable conditions for DeFi strategies"
	}
}

// analysisConfidence is 85 shifted by twice the 24h change, kept within [70, 95].
func analysisConfidence(change float64) int {
	return int(math.Round(math.Min(95, math.Max(70, 85+2*change))))
}
