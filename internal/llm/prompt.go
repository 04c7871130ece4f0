package llm

import (
	"fmt"
	"strings"

	"github.com/GoPolymarket/yieldgate/internal/model"
)

const SystemPrompt = "You are a professional DeFi yield optimization AI assistant. " +
	"Provide realistic, well-researched investment advice. Always respond with valid JSON format."

const promptTemplate = `As a DeFi yield optimization AI, analyze this portfolio and generate 3 yield strategies:

Wallet: %s
Portfolio Balance: %s ETH
Risk Tolerance: %s

Current market conditions:
- ETH price trend: Bullish
- DeFi yields: Competitive
- Gas fees: Moderate on Sepolia testnet

Generate 3 strategies with:
1. Strategy name
2. Expected APY (realistic %%)
3. Risk level (Low/Medium/High)
4. Brief explanation
5. Recommended allocation amount

Focus on: Uniswap V3 LP, Aave lending, liquid staking
Format as JSON array with this structure:
[{
  "id": 1,
  "name": "Strategy Name",
  "expectedAPY": "X.X%%",
  "riskLevel": "Low/Medium/High",
  "confidence": 85,
  "explanation": "Brief explanation",
  "recommendedAmount": "X.XX ETH",
  "strategyType": "staking/lending/liquidity_providing",
  "estimatedGas": "Low/Medium/High",
  "timeHorizon": "Short/Medium/Long-term"
}]
`

// BuildPrompt renders the user prompt for a recommendation request.
func BuildPrompt(req model.RecommendationRequest) string {
	balance := strings.TrimSpace(string(req.PortfolioBalance))
	if balance == "" {
		balance = "1"
	}
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(req.WalletAddress), balance, req.Risk())
}
