package market

import (
	"fmt"
	"strconv"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/dustin/go-humanize"
)

// MarketTrend buckets the 24h ETH price change, checked top down: above 5
// is Very Bullish, above 2 Bullish, -2 through 2 Neutral, above -5 Bearish.
// Exactly -2 is Neutral and exactly -5 is Very Bearish.
func MarketTrend(change float64) string {
	switch {
	case change > 5:
		return "Very Bullish"
	case change > 2:
		return "Bullish"
	case change >= -2:
		return "Neutral"
	case change > -5:
		return "Bearish"
	default:
		return "Very Bearish"
	}
}

// GasCondition describes the standard gas tier in gwei.
func GasCondition(standard float64) string {
	switch {
	case standard < 20:
		return "Very Low - Great for transactions"
	case standard < 30:
		return "Low - Good for transactions"
	case standard < 50:
		return "Moderate - Average conditions"
	case standard < 80:
		return "High - Consider waiting"
	default:
		return "Very High - Expensive transactions"
	}
}

// AvgDeFiAPY is the arithmetic mean of the three archetype APYs.
func AvgDeFiAPY(apys model.PoolAPYs) float64 {
	return (apys.LiquidStaking + apys.UniswapV3 + apys.AaveLending) / 3
}

// FormatMagnitude renders a dollar amount as $1.2T, $68.2B, $3.4M or $999.
func FormatMagnitude(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.1fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatUSD renders a price with thousands separators: $3,850.12.
func FormatUSD(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

// FormatChange renders a percentage with a plus sign when positive: +2.10%, 0.00%, -1.05%.
func FormatChange(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatGwei renders a gas price without trailing zeros: "25 gwei", "12.5 gwei".
func FormatGwei(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " gwei"
}

// Gas cost tiers per strategy archetype, keyed off the oracle tiers.

func StakingGas(g model.GasPrices) model.RiskLevel {
	switch {
	case g.Slow < 20:
		return model.RiskLow
	case g.Slow < 40:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

func LiquidityGas(g model.GasPrices) model.RiskLevel {
	if g.Standard < 30 {
		return model.RiskMedium
	}
	return model.RiskHigh
}

func LendingGas(g model.GasPrices) model.RiskLevel {
	if g.Slow < 25 {
		return model.RiskLow
	}
	return model.RiskMedium
}
