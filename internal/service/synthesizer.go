package service

import (
	"context"
	"fmt"

	"github.com/GoPolymarket/yieldgate/internal/market"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

const FallbackSource = "Intelligent Fallback (Real APY Data)"

var (
	stakingShare   = decimal.RequireFromString("0.40")
	liquidityShare = decimal.RequireFromString("0.35")
	lendingShare   = decimal.RequireFromString("0.25")
)

// Synthesizer builds the three archetype recommendations from live APY and
// gas data. It cannot fail: every missing input has a default.
type Synthesizer struct {
	market market.Provider
}

func NewSynthesizer(m market.Provider) *Synthesizer {
	return &Synthesizer{market: m}
}

func (s *Synthesizer) Synthesize(ctx context.Context, balance decimal.Decimal) []model.StrategyRecommendation {
	var snap model.MarketSnapshot
	if s.market != nil {
		var err error
		snap, err = market.Collect(ctx, s.market, market.YieldMetrics)
		if err != nil {
			logger.Warn("fallback market fetch faulted, using defaults where missing", "error", err)
		}
	}
	return BuildFallback(balance, snap.PoolAPYs(), snap.GasPrices())
}

// BuildFallback splits balance 40/35/25 across staking, liquidity providing
// and lending.
func BuildFallback(balance decimal.Decimal, apys model.PoolAPYs, gas model.GasPrices) []model.StrategyRecommendation {
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return []model.StrategyRecommendation{
		{
			ID:                1,
			Name:              "ETH Liquid Staking Optimizer",
			ExpectedAPY:       formatAPY(apys.LiquidStaking),
			RiskLevel:         model.RiskLow,
			Confidence:        95,
			Explanation:       "Stake ETH through liquid staking protocols for consistent yields with minimal risk. Real APY from live protocols.",
			RecommendedAmount: allocation(balance, stakingShare),
			StrategyType:      model.StrategyStaking,
			EstimatedGas:      market.StakingGas(gas),
			TimeHorizon:       model.HorizonLong,
		},
		{
			ID:                2,
			Name:              "Uniswap V3 ETH/USDC LP",
			ExpectedAPY:       formatAPY(apys.UniswapV3),
			RiskLevel:         model.RiskMedium,
			Confidence:        82,
			Explanation:       "Provide concentrated liquidity for fee collection. APY based on current Uniswap V3 pool performance.",
			RecommendedAmount: allocation(balance, liquidityShare),
			StrategyType:      model.StrategyLiquidity,
			EstimatedGas:      market.LiquidityGas(gas),
			TimeHorizon:       model.HorizonMedium,
		},
		{
			ID:                3,
			Name:              "Aave ETH Lending Protocol",
			ExpectedAPY:       formatAPY(apys.AaveLending),
			RiskLevel:         model.RiskLow,
			Confidence:        92,
			Explanation:       "Lend ETH on Aave for stable yields. Rate updated from live Aave protocol data.",
			RecommendedAmount: allocation(balance, lendingShare),
			StrategyType:      model.StrategyLending,
			EstimatedGas:      market.LendingGas(gas),
			TimeHorizon:       model.HorizonFlexible,
		},
	}
}

func allocation(balance, share decimal.Decimal) string {
	return balance.Mul(share).StringFixed(2) + " ETH"
}

func formatAPY(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
