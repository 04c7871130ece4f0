package market

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/httpx"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/GoPolymarket/yieldgate/internal/pkg/metrics"
)

const (
	SourceCoinGecko = "coingecko"
	SourceProtocols = "defillama_protocols"
	SourceYields    = "defillama_yields"
	SourceEtherscan = "etherscan"
)

// MarketService fetches live market data from CoinGecko, DeFiLlama and Etherscan.
type MarketService struct {
	http *httpx.Client
	cfg  config.SourcesConfig
}

func NewMarketService(cfg config.SourcesConfig) *MarketService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MarketService{
		http: httpx.New(timeout),
		cfg:  cfg,
	}
}

func (s *MarketService) fetch(ctx context.Context, source string, req httpx.Request, out any) bool {
	if err := s.http.DoJSON(ctx, req, out); err != nil {
		metrics.SourceFetches.WithLabelValues(source, "error").Inc()
		logger.Warn("market source unavailable", "source", source, "error", err)
		return false
	}
	metrics.SourceFetches.WithLabelValues(source, "ok").Inc()
	return true
}

func (s *MarketService) miss(source, reason string) {
	metrics.SourceFetches.WithLabelValues(source, "malformed").Inc()
	logger.Warn("market source returned unusable payload", "source", source, "reason", reason)
}

type coinGeckoPrice struct {
	USD          *float64 `json:"usd"`
	USDMarketCap float64  `json:"usd_market_cap"`
	USD24hVol    float64  `json:"usd_24h_vol"`
	USD24hChange float64  `json:"usd_24h_change"`
}

// ETHMarket returns spot price, 24h change, volume and market cap.
func (s *MarketService) ETHMarket(ctx context.Context) *model.ETHMarket {
	req := httpx.Request{
		URL: s.cfg.CoinGeckoURL,
		Query: url.Values{
			"ids":                 {"ethereum"},
			"vs_currencies":       {"usd"},
			"include_24hr_change": {"true"},
			"include_market_cap":  {"true"},
			"include_24hr_vol":    {"true"},
		},
	}
	if s.cfg.CoinGeckoAPIKey != "" {
		req.Headers = map[string]string{"X-CG-Demo-API-Key": s.cfg.CoinGeckoAPIKey}
	}

	var resp map[string]coinGeckoPrice
	if !s.fetch(ctx, SourceCoinGecko, req, &resp) {
		return nil
	}
	eth, ok := resp["ethereum"]
	if !ok || eth.USD == nil {
		s.miss(SourceCoinGecko, "missing ethereum.usd")
		return nil
	}
	return &model.ETHMarket{
		PriceUSD:       *eth.USD,
		MarketCapUSD:   eth.USDMarketCap,
		Volume24hUSD:   eth.USD24hVol,
		PriceChange24h: eth.USD24hChange,
	}
}

type llamaProtocol struct {
	Name string   `json:"name"`
	TVL  *float64 `json:"tvl"`
}

// DeFiTVL sums TVL over the protocol directory and picks out Aave and Uniswap.
func (s *MarketService) DeFiTVL(ctx context.Context) *model.TVL {
	var protocols []llamaProtocol
	if !s.fetch(ctx, SourceProtocols, httpx.Request{URL: s.cfg.DefiLlamaProtocolsURL}, &protocols) {
		return nil
	}
	return summarizeTVL(protocols)
}

func summarizeTVL(protocols []llamaProtocol) *model.TVL {
	out := &model.TVL{}
	var aave, uniswap *llamaProtocol
	for i := range protocols {
		p := &protocols[i]
		if p.TVL != nil {
			out.TotalUSD += *p.TVL
		}
		name := strings.ToLower(p.Name)
		if aave == nil && strings.Contains(name, "aave") {
			aave = p
		}
		if uniswap == nil && strings.Contains(name, "uniswap") {
			uniswap = p
		}
	}
	if aave != nil && aave.TVL != nil {
		out.AaveUSD = *aave.TVL
	}
	if uniswap != nil && uniswap.TVL != nil {
		out.UniswapUSD = *uniswap.TVL
	}
	return out
}

type llamaPool struct {
	Project string   `json:"project"`
	Symbol  string   `json:"symbol"`
	Chain   string   `json:"chain"`
	APY     *float64 `json:"apy"`
}

type llamaPoolsResponse struct {
	Status string      `json:"status"`
	Data   []llamaPool `json:"data"`
}

// PoolAPYs picks the first matching ETH pool per archetype from the yields directory.
func (s *MarketService) PoolAPYs(ctx context.Context) *model.PoolAPYs {
	var resp llamaPoolsResponse
	if !s.fetch(ctx, SourceYields, httpx.Request{URL: s.cfg.DefiLlamaYieldsURL}, &resp) {
		return nil
	}
	if resp.Data == nil {
		s.miss(SourceYields, "missing data array")
		return nil
	}
	apys := selectPoolAPYs(resp.Data)
	return &apys
}

// selectPoolAPYs applies the first-match policy in upstream order. There is
// no ranking, so the result is the first listed pool and not the best one.
func selectPoolAPYs(pools []llamaPool) model.PoolAPYs {
	var uniswap, aave, staking *llamaPool
	for i := range pools {
		p := &pools[i]
		sym := strings.ToLower(p.Symbol)
		if !strings.Contains(sym, "eth") {
			continue
		}
		upper := strings.ToUpper(p.Symbol)
		if uniswap == nil && p.Project == "uniswap-v3" && (strings.Contains(upper, "USDC") || strings.Contains(upper, "DAI")) {
			uniswap = p
		}
		if aave == nil && (p.Project == "aave-v3" || p.Project == "aave-v2") {
			aave = p
		}
		if staking == nil && (p.Project == "rocket-pool" || p.Project == "lido" ||
			strings.Contains(sym, "steth") || strings.Contains(sym, "reth")) {
			staking = p
		}
	}
	return model.PoolAPYs{
		UniswapV3:     apyOr(uniswap, model.DefaultPoolAPYs.UniswapV3),
		AaveLending:   apyOr(aave, model.DefaultPoolAPYs.AaveLending),
		LiquidStaking: apyOr(staking, model.DefaultPoolAPYs.LiquidStaking),
	}
}

func apyOr(p *llamaPool, def float64) float64 {
	if p == nil || p.APY == nil || *p.APY == 0 {
		return def
	}
	return *p.APY
}

type etherscanGasResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  struct {
		SafeGasPrice     string `json:"SafeGasPrice"`
		ProposeGasPrice  string `json:"ProposeGasPrice"`
		StandardGasPrice string `json:"StandardGasPrice"`
		FastGasPrice     string `json:"FastGasPrice"`
	} `json:"result"`
}

// GasPrices reads the Etherscan gas oracle tiers in gwei.
func (s *MarketService) GasPrices(ctx context.Context) *model.GasPrices {
	req := httpx.Request{
		URL: s.cfg.EtherscanURL,
		Query: url.Values{
			"module": {"gastracker"},
			"action": {"gasoracle"},
			"apikey": {s.cfg.EtherscanAPIKey},
		},
	}
	// On an error Etherscan sends "result" as a string, which fails decoding here.
	var resp etherscanGasResponse
	if !s.fetch(ctx, SourceEtherscan, req, &resp) {
		return nil
	}
	standard := resp.Result.StandardGasPrice
	if standard == "" {
		standard = resp.Result.ProposeGasPrice
	}
	slow, okSlow := parseGwei(resp.Result.SafeGasPrice)
	std, okStd := parseGwei(standard)
	fast, okFast := parseGwei(resp.Result.FastGasPrice)
	if !okSlow || !okStd || !okFast {
		s.miss(SourceEtherscan, "non-numeric gas tiers")
		return nil
	}
	return &model.GasPrices{Slow: slow, Standard: std, Fast: fast}
}

func parseGwei(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
