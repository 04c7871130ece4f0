package market

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Metric selects which parts of a snapshot to fetch.
type Metric uint8

const (
	MetricPrice Metric = 1 << iota
	MetricTVL
	MetricAPY
	MetricGas

	AllMetrics   = MetricPrice | MetricTVL | MetricAPY | MetricGas
	YieldMetrics = MetricAPY | MetricGas
)

// Collect fetches the selected metrics concurrently and joins them. A source
// that fails leaves its field nil without affecting the others. An error is
// returned only when the fan-out itself faults (a fetcher panicked).
func Collect(ctx context.Context, p Provider, which Metric) (model.MarketSnapshot, error) {
	var (
		snap model.MarketSnapshot
		g    errgroup.Group
	)

	if which&MetricPrice != 0 {
		g.Go(guard("eth_market", func() { snap.ETH = p.ETHMarket(ctx) }))
	}
	if which&MetricTVL != 0 {
		g.Go(guard("defi_tvl", func() { snap.TVL = p.DeFiTVL(ctx) }))
	}
	if which&MetricAPY != 0 {
		g.Go(guard("pool_apys", func() { snap.APYs = p.PoolAPYs(ctx) }))
	}
	if which&MetricGas != 0 {
		g.Go(guard("gas_prices", func() { snap.Gas = p.GasPrices(ctx) }))
	}

	err := g.Wait()
	snap.FetchedAt = time.Now().UTC()
	return snap, err
}

// guard turns a panic inside one fetcher into an error for the group.
func guard(name string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("market fetch panicked", "fetch", name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
				err = fmt.Errorf("%s fetch panicked: %v", name, r)
			}
		}()
		fn()
		return nil
	}
}
