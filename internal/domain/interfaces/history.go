package interfaces

import (
	"context"

	market "main/internal/domain/entity/market"
)

// HistoryRepository is the durable historical price store. Rows are
// unique per (symbol, date). The request path only reads; writers are
// the seed tool and the daily close recorder.
type HistoryRepository interface {
	Upsert(ctx context.Context, row market.HistoricalPrice) error
	FetchForSymbol(ctx context.Context, symbol string, limit int) ([]market.HistoricalPrice, error)
	Recent(ctx context.Context, symbol string, limit int) ([]market.HistoricalPrice, error)
	ClearSymbol(ctx context.Context, symbol string) error
	Close()
}
