package trading

import "time"

// Order is a committed ledger entry. Orders are immutable once
// appended; the ledger's insertion order is authoritative for
// "most recent", not the timestamp.
type Order struct {
	Symbol    string    `json:"symbol"`
	Units     float64   `json:"units"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingOrder is a staged purchase awaiting PIN authorization. At
// most one exists per session; starting a new buy flow replaces it.
type PendingOrder struct {
	Symbol      string  `json:"symbol"`
	Units       float64 `json:"units"`
	MarketPrice float64 `json:"market_price"`
	TotalCost   float64 `json:"total_cost"`
}
