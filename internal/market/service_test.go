package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/config"
	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSources(t *testing.T, mux *http.ServeMux) config.SourcesConfig {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return config.SourcesConfig{
		CoinGeckoURL:          srv.URL + "/price",
		DefiLlamaProtocolsURL: srv.URL + "/protocols",
		DefiLlamaYieldsURL:    srv.URL + "/pools",
		EtherscanURL:          srv.URL + "/gas",
		Timeout:               2 * time.Second,
	}
}

func TestETHMarket(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/price", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		assert.Equal(t, "demo", r.Header.Get("X-CG-Demo-API-Key"))
		_, _ = w.Write([]byte(`{"ethereum":{"usd":3912.5,"usd_market_cap":470000000000,"usd_24h_vol":18000000000,"usd_24h_change":-1.25}}`))
	})
	cfg := newTestSources(t, mux)
	cfg.CoinGeckoAPIKey = "demo"

	got := NewMarketService(cfg).ETHMarket(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, 3912.5, got.PriceUSD)
	assert.Equal(t, -1.25, got.PriceChange24h)
	assert.Equal(t, 18_000_000_000.0, got.Volume24hUSD)
}

func TestETHMarketMissingPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/price", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	})
	assert.Nil(t, NewMarketService(newTestSources(t, mux)).ETHMarket(context.Background()))
}

func TestDeFiTVLSumsProtocols(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/protocols", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name":"Lido","tvl":30000000000},
			{"name":"AAVE V3","tvl":20000000000},
			{"name":"Aave V2","tvl":5000000000},
			{"name":"Uniswap V3","tvl":4000000000},
			{"name":"Unknown","tvl":null}
		]`))
	})

	got := NewMarketService(newTestSources(t, mux)).DeFiTVL(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, 59_000_000_000.0, got.TotalUSD)
	assert.Equal(t, 20_000_000_000.0, got.AaveUSD)
	assert.Equal(t, 4_000_000_000.0, got.UniswapUSD)
}

func TestSelectPoolAPYsFirstMatchWins(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	pools := []llamaPool{
		{Project: "uniswap-v3", Symbol: "WBTC-USDC", APY: f(40)},
		{Project: "uniswap-v3", Symbol: "WETH-USDC", APY: f(18.5)},
		{Project: "uniswap-v3", Symbol: "WETH-DAI", APY: f(30)},
		{Project: "aave-v3", Symbol: "WETH", APY: f(2.1)},
		{Project: "aave-v2", Symbol: "WETH", APY: f(9)},
		{Project: "lido", Symbol: "STETH", APY: f(3.3)},
		{Project: "rocket-pool", Symbol: "RETH", APY: f(3.9)},
	}
	got := selectPoolAPYs(pools)
	assert.Equal(t, 18.5, got.UniswapV3)
	assert.Equal(t, 2.1, got.AaveLending)
	assert.Equal(t, 3.3, got.LiquidStaking)
}

func TestSelectPoolAPYsDefaults(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	pools := []llamaPool{
		{Project: "aave-v3", Symbol: "USDC", APY: f(5)},
		{Project: "lido", Symbol: "STETH", APY: nil},
	}
	got := selectPoolAPYs(pools)
	assert.Equal(t, model.DefaultPoolAPYs, got)
}

func TestPoolAPYsMissingData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pools", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	})
	assert.Nil(t, NewMarketService(newTestSources(t, mux)).PoolAPYs(context.Background()))
}

func TestGasPrices(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gas", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gastracker", r.URL.Query().Get("module"))
		assert.Equal(t, "gasoracle", r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":{"SafeGasPrice":"12","ProposeGasPrice":"18.5","FastGasPrice":"30"}}`))
	})

	got := NewMarketService(newTestSources(t, mux)).GasPrices(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, model.GasPrices{Slow: 12, Standard: 18.5, Fast: 30}, *got)
}

func TestGasPricesErrorPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gas", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Invalid API Key"}`))
	})
	assert.Nil(t, NewMarketService(newTestSources(t, mux)).GasPrices(context.Background()))
}

func TestSourceFailureIsAbsence(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	svc := NewMarketService(newTestSources(t, mux))
	ctx := context.Background()

	assert.Nil(t, svc.ETHMarket(ctx))
	assert.Nil(t, svc.DeFiTVL(ctx))
	assert.Nil(t, svc.PoolAPYs(ctx))
	assert.Nil(t, svc.GasPrices(ctx))
}

type stubProvider struct {
	calls atomic.Int32
	panic bool
}

func (s *stubProvider) ETHMarket(context.Context) *model.ETHMarket {
	s.calls.Add(1)
	return &model.ETHMarket{PriceUSD: 4000, PriceChange24h: 3}
}

func (s *stubProvider) DeFiTVL(context.Context) *model.TVL {
	s.calls.Add(1)
	return nil
}

func (s *stubProvider) PoolAPYs(context.Context) *model.PoolAPYs {
	s.calls.Add(1)
	if s.panic {
		panic("boom")
	}
	return &model.PoolAPYs{LiquidStaking: 3, UniswapV3: 12, AaveLending: 2}
}

func (s *stubProvider) GasPrices(context.Context) *model.GasPrices {
	s.calls.Add(1)
	return &model.GasPrices{Slow: 10, Standard: 20, Fast: 30}
}

func TestCollectSelectsMetrics(t *testing.T) {
	p := &stubProvider{}
	snap, err := Collect(context.Background(), p, YieldMetrics)
	require.NoError(t, err)
	assert.Equal(t, int32(2), p.calls.Load())
	assert.Nil(t, snap.ETH)
	assert.Nil(t, snap.TVL)
	require.NotNil(t, snap.APYs)
	assert.Equal(t, 12.0, snap.APYs.UniswapV3)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestCollectAllKeepsPartialResults(t *testing.T) {
	snap, err := Collect(context.Background(), &stubProvider{}, AllMetrics)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, snap.ETHPrice())
	assert.Equal(t, model.DefaultTotalTVL, snap.TotalTVL())
}

func TestCollectRecoversPanic(t *testing.T) {
	_, err := Collect(context.Background(), &stubProvider{panic: true}, AllMetrics)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool_apys")
}
