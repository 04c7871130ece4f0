package llm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/GoPolymarket/yieldgate/internal/model"
)

const defaultConfidence = 75

// archetypes is the fallback order when an entry gives no usable type.
var archetypes = []model.StrategyType{model.StrategyStaking, model.StrategyLiquidity, model.StrategyLending}

// Normalize coerces untrusted entries into recommendations. Non-object
// entries are dropped, the rest are renumbered from 1 and every field is
// clamped or defaulted. Nothing here fails the batch.
func Normalize(entries []any) []model.StrategyRecommendation {
	out := make([]model.StrategyRecommendation, 0, len(entries))
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		pos := len(out)
		rec := model.StrategyRecommendation{
			ID:          pos + 1,
			Name:        text(obj["name"]),
			Explanation: text(obj["explanation"]),
			Confidence:  confidence(obj["confidence"]),
			TimeHorizon: horizon(text(obj["timeHorizon"])),
		}
		if rec.Name == "" {
			rec.Name = fmt.Sprintf("Strategy %d", rec.ID)
		}
		rec.RiskLevel, _ = model.ParseRiskLevel(text(obj["riskLevel"]))
		rec.EstimatedGas, _ = model.ParseRiskLevel(text(obj["estimatedGas"]))
		rec.StrategyType = strategyType(text(obj["strategyType"]), rec.Name, pos)
		rec.ExpectedAPY = apy(obj["expectedAPY"], rec.StrategyType)
		rec.RecommendedAmount = amount(obj["recommendedAmount"])
		out = append(out, rec)
	}
	return out
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func confidence(v any) int {
	f, ok := number(v)
	if !ok {
		return defaultConfidence
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

// apy accepts a number or a numeric string with an optional "%". Anything
// else takes the archetype default.
func apy(v any, st model.StrategyType) string {
	if f, ok := number(v); ok {
		return fmt.Sprintf("%.1f%%", f)
	}
	return fmt.Sprintf("%.1f%%", defaultAPY(st))
}

func defaultAPY(st model.StrategyType) float64 {
	switch st {
	case model.StrategyLiquidity:
		return model.DefaultPoolAPYs.UniswapV3
	case model.StrategyLending:
		return model.DefaultPoolAPYs.AaveLending
	default:
		return model.DefaultPoolAPYs.LiquidStaking
	}
}

func amount(v any) string {
	if f, ok := v.(float64); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return fmt.Sprintf("%.2f ETH", f)
	}
	s := text(v)
	if s == "" {
		return "0.00 ETH"
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s + " ETH"
	}
	return s
}

func strategyType(raw, name string, pos int) model.StrategyType {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")) {
	case "staking", "stake", "liquid_staking":
		return model.StrategyStaking
	case "lending", "lend", "lending_protocol":
		return model.StrategyLending
	case "liquidity_providing", "liquidity_provision", "liquidity", "lp", "liquidity_pool":
		return model.StrategyLiquidity
	}
	if st, ok := inferType(name); ok {
		return st
	}
	return archetypes[pos%len(archetypes)]
}

func inferType(name string) (model.StrategyType, bool) {
	lower := strings.ToLower(name)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	for _, w := range words {
		if w == "lp" {
			return model.StrategyLiquidity, true
		}
	}
	switch {
	case strings.Contains(lower, "stak"):
		return model.StrategyStaking, true
	case strings.Contains(lower, "lend"), strings.Contains(lower, "aave"), strings.Contains(lower, "compound"):
		return model.StrategyLending, true
	case strings.Contains(lower, "liquidity"), strings.Contains(lower, "uniswap"), strings.Contains(lower, "pool"):
		return model.StrategyLiquidity, true
	}
	return "", false
}

func horizon(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "short"):
		return model.HorizonShort
	case strings.Contains(lower, "long"):
		return model.HorizonLong
	case strings.Contains(lower, "flex"):
		return model.HorizonFlexible
	default:
		return model.HorizonMedium
	}
}
