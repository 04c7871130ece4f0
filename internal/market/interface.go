package market

import (
	"context"

	"github.com/GoPolymarket/yieldgate/internal/model"
)

// Provider is the MarketDataAggregator contract. Each method makes a single
// attempt and returns nil when its source failed; it never returns an error.
type Provider interface {
	ETHMarket(ctx context.Context) *model.ETHMarket
	DeFiTVL(ctx context.Context) *model.TVL
	PoolAPYs(ctx context.Context) *model.PoolAPYs
	GasPrices(ctx context.Context) *model.GasPrices
}
