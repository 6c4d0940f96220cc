package market

import "math"

// Candle is a single OHLC bar, all values rounded to 4 decimal places.
type Candle struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Clamp widens the wicks so that High >= max(Open, Close) and
// Low <= min(Open, Close). Generators must call it after every bar,
// whatever the draws produced.
func (c *Candle) Clamp() {
	c.High = math.Max(c.High, math.Max(c.Open, c.Close))
	c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
}

// CandleSeries is an ordered daily candle sequence, oldest first,
// paired 1:1 with display dates.
type CandleSeries struct {
	Symbol  string   `json:"symbol"`
	Dates   []string `json:"dates"`
	Candles []Candle `json:"candles"`
}

// HistoricalPrice is a durable OHLC row keyed by (symbol, date). Date
// is stored as an ISO calendar day string, which also sorts
// chronologically.
type HistoricalPrice struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
}
