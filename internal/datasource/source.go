// Package datasource provides stock market data: real providers behind a
// common capability interface, a deterministic synthetic generator, and
// a chain that falls back between them.
package datasource

import (
	"context"
	"time"

	"StockScout/internal/model"
)

// HistoryDataSource is the capability the screening engine consumes.
// Implementations exist per provider; the engine treats them
// polymorphically.
type HistoryDataSource interface {
	// ListSymbols returns the screening universe in provider order,
	// with whatever snapshot fundamentals the provider carries.
	ListSymbols(ctx context.Context) ([]model.SymbolInfo, error)

	// GetHistory returns daily bars for one symbol in [start, end].
	GetHistory(ctx context.Context, symbol string, start, end time.Time) (*model.TimeSeries, error)

	Name() string
}
