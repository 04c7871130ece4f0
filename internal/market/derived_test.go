package market

import (
	"testing"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMarketTrendBoundaries(t *testing.T) {
	cases := []struct {
		change float64
		want   string
	}{
		{5.01, "Very Bullish"},
		{5.0, "Bullish"},
		{2.01, "Bullish"},
		{2.0, "Neutral"},
		{0, "Neutral"},
		{-2.0, "Neutral"},
		{-2.01, "Bearish"},
		{-2.0000001, "Bearish"},
		{-1.99, "Neutral"},
		{-5.0, "Very Bearish"},
		{-4.99, "Bearish"},
		{-30, "Very Bearish"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MarketTrend(tc.change), "change %v", tc.change)
	}
}

func TestGasConditionBoundaries(t *testing.T) {
	cases := []struct {
		gwei float64
		want string
	}{
		{0, "Very Low - Great for transactions"},
		{19.9, "Very Low - Great for transactions"},
		{20, "Low - Good for transactions"},
		{29.99, "Low - Good for transactions"},
		{30, "Moderate - Average conditions"},
		{50, "High - Consider waiting"},
		{79, "High - Consider waiting"},
		{80, "Very High - Expensive transactions"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GasCondition(tc.gwei), "gwei %v", tc.gwei)
	}
}

func TestAvgDeFiAPY(t *testing.T) {
	got := AvgDeFiAPY(model.PoolAPYs{UniswapV3: 15.2, AaveLending: 3.8, LiquidStaking: 4.2})
	assert.InDelta(t, 7.7333, got, 0.0001)
}

func TestFormatMagnitude(t *testing.T) {
	assert.Equal(t, "$68.2B", FormatMagnitude(68_200_000_000))
	assert.Equal(t, "$999", FormatMagnitude(999))
	assert.Equal(t, "$1.5T", FormatMagnitude(1.5e12))
	assert.Equal(t, "$1.0M", FormatMagnitude(1e6))
	assert.Equal(t, "$0", FormatMagnitude(0))
}

func TestKeyMetricFormatting(t *testing.T) {
	assert.Equal(t, "$3,850", FormatUSD(3850))
	assert.Equal(t, "$3,850.12", FormatUSD(3850.12))
	assert.Equal(t, "+2.10%", FormatChange(2.1))
	assert.Equal(t, "0.00%", FormatChange(0))
	assert.Equal(t, "-1.05%", FormatChange(-1.05))
	assert.Equal(t, "25 gwei", FormatGwei(25))
	assert.Equal(t, "12.5 gwei", FormatGwei(12.5))
}

func TestArchetypeGasTiers(t *testing.T) {
	assert.Equal(t, model.RiskLow, StakingGas(model.GasPrices{Slow: 19}))
	assert.Equal(t, model.RiskMedium, StakingGas(model.GasPrices{Slow: 20}))
	assert.Equal(t, model.RiskHigh, StakingGas(model.GasPrices{Slow: 40}))

	assert.Equal(t, model.RiskMedium, LiquidityGas(model.GasPrices{Standard: 29}))
	assert.Equal(t, model.RiskHigh, LiquidityGas(model.GasPrices{Standard: 30}))

	assert.Equal(t, model.RiskLow, LendingGas(model.GasPrices{Slow: 24}))
	assert.Equal(t, model.RiskMedium, LendingGas(model.GasPrices{Slow: 25}))
}
