package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBalance(t *testing.T) {
	cases := map[string]string{
		"2.5":     "2.5",
		" 2.5 ":   "2.5",
		"2.5 ETH": "2.5",
		"0":       "0",
		"":        "1",
		"abc":     "1",
		"-3":      "0",
		".5":      "0.5",
		"7.":      "7",
		"1e2":     "100",
		"-":       "1",
		"-0":      "0",
		"1e18":    "1000000000000000000",
		"1e19":    "1",
		"1e400":   "1",
		"-1e400":  "0",
		"1e-400":  "0",
	}
	for in, want := range cases {
		got := ParseBalance(in)
		assert.Equal(t, want, got.String(), "input %q", in)
	}
}

func TestParseBalanceBoundsHugeExponents(t *testing.T) {
	for _, in := range []string{"1e5000000", "9e2147483647", "1e-5000000", "1" + strings.Repeat("0", 10000)} {
		got := ParseBalance(in)
		assert.True(t, got.LessThanOrEqual(decimal.NewFromFloat(MaxBalance)), "input %.20q", in)
		assert.Less(t, len(got.StringFixed(2)), 32, "input %.20q", in)
	}

	long := "0." + strings.Repeat("0", 5000) + "1"
	assert.Equal(t, "0.00", ParseBalance(long).StringFixed(2))
}

func TestRecommendationRequestAcceptsNumericBalance(t *testing.T) {
	var req RecommendationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"walletAddress":"0xabc","portfolioBalance":2.5}`), &req))
	assert.Equal(t, FlexString("2.5"), req.PortfolioBalance)
	assert.Equal(t, RiskMedium, req.Risk())

	require.NoError(t, json.Unmarshal([]byte(`{"portfolioBalance":"1.25","riskTolerance":"high"}`), &req))
	assert.Equal(t, FlexString("1.25"), req.PortfolioBalance)
	assert.Equal(t, RiskHigh, req.Risk())

	require.NoError(t, json.Unmarshal([]byte(`{"portfolioBalance":null}`), &req))
	assert.Equal(t, FlexString(""), req.PortfolioBalance)
}

func TestParseRiskLevel(t *testing.T) {
	level, ok := ParseRiskLevel("LOW")
	assert.True(t, ok)
	assert.Equal(t, RiskLow, level)

	level, ok = ParseRiskLevel("extreme")
	assert.False(t, ok)
	assert.Equal(t, RiskMedium, level)
}

func TestSnapshotDefaults(t *testing.T) {
	var snap MarketSnapshot
	assert.Equal(t, DefaultETHPrice, snap.ETHPrice())
	assert.Equal(t, DefaultPriceChange24h, snap.PriceChange())
	assert.Equal(t, DefaultTotalTVL, snap.TotalTVL())
	assert.Equal(t, DefaultPoolAPYs, snap.PoolAPYs())
	assert.Equal(t, DefaultGasPrices, snap.GasPrices())

	snap.ETH = &ETHMarket{PriceUSD: 4000, PriceChange24h: 0}
	assert.Equal(t, 4000.0, snap.ETHPrice())
	assert.Equal(t, 0.0, snap.PriceChange(), "a real zero change is kept")
}
