package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ParseRiskLevel maps free-form input onto Low/Medium/High.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "conservative":
		return RiskLow, true
	case "medium", "moderate", "med":
		return RiskMedium, true
	case "high", "aggressive":
		return RiskHigh, true
	}
	return RiskMedium, false
}

type StrategyType string

const (
	StrategyStaking   StrategyType = "staking"
	StrategyLending   StrategyType = "lending"
	StrategyLiquidity StrategyType = "liquidity_providing"
)

const (
	HorizonShort    = "Short-term"
	HorizonMedium   = "Medium-term"
	HorizonLong     = "Long-term"
	HorizonFlexible = "Flexible"
)

// FlexString accepts a JSON string or number. Clients send the balance both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// RecommendationRequest is the body of POST generate-recommendations.
type RecommendationRequest struct {
	WalletAddress    string     `json:"walletAddress"`
	PortfolioBalance FlexString `json:"portfolioBalance"`
	RiskTolerance    string     `json:"riskTolerance"`
}

// Risk returns the requested tolerance, Medium when absent or unknown.
func (r RecommendationRequest) Risk() RiskLevel {
	level, _ := ParseRiskLevel(r.RiskTolerance)
	return level
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// MaxBalance is the largest balance in ETH accepted from a caller. Larger
// values are treated as unparsable.
const MaxBalance = 1e18

// maxExactDigits bounds the inputs parsed digit for digit. Longer numbers
// go through float64 so the decimal exponent stays small.
const maxExactDigits = 40

// ParseBalance reads the leading numeric prefix of s ("2.5 ETH" -> 2.5).
// Unparsable or out-of-range input defaults to 1; negative balances clamp
// to 0.
func ParseBalance(s string) decimal.Decimal {
	m := strings.TrimSuffix(leadingNumber.FindString(strings.TrimSpace(s)), ".")
	if m == "" || m == "+" || m == "-" {
		return decimal.NewFromInt(1)
	}
	// Range errors still return ±Inf or 0, which the checks below handle.
	f, err := strconv.ParseFloat(m, 64)
	switch {
	case err != nil && !errors.Is(err, strconv.ErrRange), math.IsNaN(f):
		return decimal.NewFromInt(1)
	case f < 0:
		return decimal.Zero
	case math.IsInf(f, 0) || f > MaxBalance:
		return decimal.NewFromInt(1)
	case f == 0:
		return decimal.Zero
	}
	if len(m) > maxExactDigits {
		return decimal.NewFromFloat(f)
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.NewFromFloat(f)
	}
	return d
}

type StrategyRecommendation struct {
	ID                int          `json:"id"`
	Name              string       `json:"name"`
	ExpectedAPY       string       `json:"expectedAPY"`
	RiskLevel         RiskLevel    `json:"riskLevel"`
	Confidence        int          `json:"confidence"`
	Explanation       string       `json:"explanation"`
	RecommendedAmount string       `json:"recommendedAmount"`
	StrategyType      StrategyType `json:"strategyType"`
	EstimatedGas      RiskLevel    `json:"estimatedGas"`
	TimeHorizon       string       `json:"timeHorizon"`
}

type RecommendationMetadata struct {
	Timestamp      time.Time `json:"timestamp"`
	WalletAnalyzed string    `json:"walletAnalyzed"`
	TotalBalance   string    `json:"totalBalance"`
	RiskProfile    RiskLevel `json:"riskProfile"`
	AISource       string    `json:"aiSource"`
}

type RecommendationResponse struct {
	Success         bool                     `json:"success"`
	Recommendations []StrategyRecommendation `json:"recommendations"`
	Metadata        RecommendationMetadata   `json:"metadata"`
}
