package market

// Direction marks the short-term movement shown next to an exchange
// price.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ExchangeQuote is one venue's price for an asset.
type ExchangeQuote struct {
	Price     float64   `json:"price"`
	Direction Direction `json:"direction"`
}

// Quote is a derived intraday snapshot for one asset. It is recomputed
// per request from a time-bucketed seed and never persisted.
type Quote struct {
	Name            string                   `json:"name"`
	Symbol          string                   `json:"symbol"`
	Icon            string                   `json:"icon"`
	Exchanges       map[string]ExchangeQuote `json:"exchanges"`
	OverallPrice    float64                  `json:"overall_price"`
	ChangePercent   float64                  `json:"change_percent"`
	PriceHistory    []float64                `json:"price_history"`
	InitialQuantity float64                  `json:"initial_quantity"`
	Quantity        float64                  `json:"quantity"`
	EstimatedValue  float64                  `json:"estimated_value"`
}
