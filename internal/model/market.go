package model

import "time"

// ETHMarket is the CoinGecko spot view of ETH.
type ETHMarket struct {
	PriceUSD       float64 `json:"price"`
	MarketCapUSD   float64 `json:"marketCap"`
	Volume24hUSD   float64 `json:"volume24h"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// TVL is the DeFiLlama protocol directory rolled up.
type TVL struct {
	TotalUSD   float64 `json:"totalTVL"`
	AaveUSD    float64 `json:"aaveTVL"`
	UniswapUSD float64 `json:"uniswapTVL"`
}

// PoolAPYs holds one APY (percent) per strategy archetype.
type PoolAPYs struct {
	LiquidStaking float64 `json:"liquidStakingAPY"`
	UniswapV3     float64 `json:"uniswapV3APY"`
	AaveLending   float64 `json:"aaveLendingAPY"`
}

// GasPrices are gwei tiers from the gas oracle.
type GasPrices struct {
	Slow     float64 `json:"slow"`
	Standard float64 `json:"standard"`
	Fast     float64 `json:"fast"`
}

// Fallback values used when a source returned nothing.
var (
	DefaultETHPrice       = 3850.0
	DefaultPriceChange24h = 2.1
	DefaultTotalTVL       = 68_200_000_000.0
	DefaultPoolAPYs       = PoolAPYs{LiquidStaking: 4.2, UniswapV3: 15.2, AaveLending: 3.8}
	DefaultGasPrices      = GasPrices{Slow: 15, Standard: 25, Fast: 35}
)

// MarketSnapshot is fetched fresh per request. A nil field means its source
// returned nothing; accessors substitute the defaults above.
type MarketSnapshot struct {
	ETH       *ETHMarket `json:"eth,omitempty"`
	TVL       *TVL       `json:"tvl,omitempty"`
	APYs      *PoolAPYs  `json:"apys,omitempty"`
	Gas       *GasPrices `json:"gas,omitempty"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

func (s MarketSnapshot) ETHPrice() float64 {
	if s.ETH == nil {
		return DefaultETHPrice
	}
	return s.ETH.PriceUSD
}

func (s MarketSnapshot) PriceChange() float64 {
	if s.ETH == nil {
		return DefaultPriceChange24h
	}
	return s.ETH.PriceChange24h
}

func (s MarketSnapshot) TotalTVL() float64 {
	if s.TVL == nil {
		return DefaultTotalTVL
	}
	return s.TVL.TotalUSD
}

func (s MarketSnapshot) PoolAPYs() PoolAPYs {
	if s.APYs == nil {
		return DefaultPoolAPYs
	}
	return *s.APYs
}

func (s MarketSnapshot) GasPrices() GasPrices {
	if s.Gas == nil {
		return DefaultGasPrices
	}
	return *s.Gas
}

type KeyMetrics struct {
	ETHPrice          string `json:"ethPrice"`
	ETHPriceChange24h string `json:"ethPriceChange24h,omitempty"`
	TotalValueLocked  string `json:"totalValueLocked"`
	GasPrice          string `json:"gasPrice,omitempty"`
	DominanceIndex    string `json:"dominanceIndex"`
}

type MarketAnalysis struct {
	MarketTrend    string     `json:"marketTrend"`
	BestSectors    []string   `json:"bestSectors"`
	AvgDeFiAPY     string     `json:"avgDeFiAPY"`
	RiskAssessment string     `json:"riskAssessment"`
	GasConditions  string     `json:"gasConditions"`
	Recommendation string     `json:"recommendation"`
	Confidence     int        `json:"confidence"`
	LastUpdated    time.Time  `json:"lastUpdated"`
	KeyMetrics     KeyMetrics `json:"keyMetrics"`
}

type MarketAnalysisResponse struct {
	Success    bool           `json:"success"`
	Analysis   MarketAnalysis `json:"analysis"`
	Timestamp  time.Time      `json:"timestamp"`
	DataSource string         `json:"dataSource"`
}
