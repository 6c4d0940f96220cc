package market

import (
	"context"
	"errors"
	"math"
	"time"

	market "main/internal/domain/entity/market"
	trading "main/internal/domain/entity/trading"
	interfaces "main/internal/domain/interfaces"
)

var ErrInvalidSeriesLength = errors.New("invalid series length")

// DefaultSeriesDays is the chart depth the UI asks for.
const DefaultSeriesDays = 30

// quoteBucket is how long generated quotes stay stable. Quotes for one
// asset are identical within a bucket and may change when it rolls.
const quoteBucket = time.Hour

// exchanges lists the simulated venues. Order matters: draws happen
// per venue in this order, so reordering would change every quote.
var exchanges = []string{"Binance", "Coinbase"}

const sparklinePoints = 7

// Service generates reproducible synthetic market data for the asset
// catalog. When a historical price store is configured, stored rows
// take precedence over synthetic candles and change percentages.
type Service struct {
	catalog *market.Catalog
	history interfaces.HistoryRepository
	now     func() time.Time
}

// NewService builds the generator. history may be nil.
func NewService(catalog *market.Catalog, history interfaces.HistoryRepository) *Service {
	return &Service{
		catalog: catalog,
		history: history,
		now:     time.Now,
	}
}

// Assets exposes the catalog entries.
func (s *Service) Assets() []market.Asset {
	return s.catalog.Assets()
}

// GetAsset resolves a catalog symbol.
func (s *Service) GetAsset(symbol string) (market.Asset, error) {
	return s.catalog.Get(symbol)
}

// GetQuotes returns the current snapshot for every catalog asset,
// with quantities folded from the session's order ledger.
func (s *Service) GetQuotes(ctx context.Context, session *trading.Session) []market.Quote {
	assets := s.catalog.Assets()
	quotes := make([]market.Quote, 0, len(assets))
	for _, a := range assets {
		quotes = append(quotes, s.quote(ctx, a, session))
	}
	return quotes
}

// GetQuote returns the snapshot for a single asset.
func (s *Service) GetQuote(ctx context.Context, symbol string, session *trading.Session) (market.Quote, error) {
	a, err := s.catalog.Get(symbol)
	if err != nil {
		return market.Quote{}, err
	}
	return s.quote(ctx, a, session), nil
}

// quote derives one asset's snapshot from the hourly-bucketed seed.
// The draw order below is fixed: base jitter, 24h change, spread, one
// direction per venue, then the sparkline. A stored history row only
// overrides the change value, never the draw sequence.
func (s *Service) quote(ctx context.Context, a market.Asset, session *trading.Session) market.Quote {
	bucket := s.now().Unix() / int64(quoteBucket/time.Second)
	st := newStream(symbolSeed(a.Symbol) + bucket)

	currentBase := a.BasePrice * (0.995 + st.draw()*0.01)

	change := (st.draw() - 0.3) * 20 // biased slightly positive
	change = math.Min(math.Max(change, -8.0), 12.0)

	spread := 0.001 + st.draw()*0.004
	prices := make([]float64, len(exchanges))
	for i := range exchanges {
		// venues alternate symmetrically around the jittered base
		half := spread / 2
		if i%2 == 0 {
			prices[i] = currentBase * (1.0 - half)
		} else {
			prices[i] = currentBase * (1.0 + half)
		}
	}

	venues := make(map[string]market.ExchangeQuote, len(exchanges))
	var sum float64
	for i, name := range exchanges {
		direction := market.DirectionDown
		if st.coin() {
			direction = market.DirectionUp
		}
		venues[name] = market.ExchangeQuote{Price: round2(prices[i]), Direction: direction}
		sum += prices[i]
	}
	overall := round2(sum / float64(len(exchanges)))

	history := make([]float64, sparklinePoints)
	for i := range history {
		history[i] = round2(overall * (0.90 + st.draw()*0.20))
	}

	if real, ok := s.historicalChange(ctx, a.Symbol); ok {
		change = real
	}

	quantity := a.InitialQuantity
	if session != nil {
		quantity += session.PurchasedUnits(a.Symbol)
	}

	return market.Quote{
		Name:            a.Name,
		Symbol:          a.Symbol,
		Icon:            a.Icon,
		Exchanges:       venues,
		OverallPrice:    overall,
		ChangePercent:   round2(change),
		PriceHistory:    history,
		InitialQuantity: a.InitialQuantity,
		Quantity:        quantity,
		EstimatedValue:  round2(quantity * overall),
	}
}

// historicalChange computes the 24h change from the two most recent
// stored closes. Store errors fall through to the synthetic value,
// same as an empty store.
func (s *Service) historicalChange(ctx context.Context, symbol string) (float64, bool) {
	if s.history == nil {
		return 0, false
	}
	rows, err := s.history.Recent(ctx, symbol, 2)
	if err != nil || len(rows) < 2 {
		return 0, false
	}
	today, yesterday := rows[0], rows[1]
	if yesterday.Close == 0 {
		return 0, false
	}
	return (today.Close - yesterday.Close) / yesterday.Close * 100, true
}

// GetCandleSeries returns days of daily candles for a symbol, oldest
// first. Stored historical rows win over synthetic generation; the
// synthetic series is seeded from the symbol alone, so a given chart
// is identical on every request.
func (s *Service) GetCandleSeries(ctx context.Context, symbol string, days int) (*market.CandleSeries, error) {
	a, err := s.catalog.Get(symbol)
	if err != nil {
		return nil, err
	}
	if days <= 1 {
		return nil, ErrInvalidSeriesLength
	}

	if s.history != nil {
		rows, err := s.history.FetchForSymbol(ctx, a.Symbol, days)
		if err == nil && len(rows) > 0 {
			return storedSeries(a.Symbol, rows), nil
		}
	}

	return s.GenerateSeries(a, days), nil
}

// GenerateSeries builds the synthetic series, bypassing the history
// store. The seed recorder and the seed tool call it directly.
func (s *Service) GenerateSeries(a market.Asset, days int) *market.CandleSeries {
	st := newStream(symbolSeed(a.Symbol))

	startPrice := a.BasePrice * (0.90 + st.draw()*0.20)
	trendPerDay := (a.BasePrice - startPrice) / float64(days-1)

	candles := make([]market.Candle, 0, days)
	var previousClose float64
	for i := 0; i < days; i++ {
		var open float64
		if i == 0 {
			open = startPrice + trendPerDay*float64(i)
		} else {
			gap := (st.draw() - 0.5) * 0.10 // -5% to +5% between sessions
			open = previousClose * (1.0 + gap)
		}

		dailyChange := (st.draw() - 0.5) * a.Volatility * 2
		closePrice := open * (1.0 + dailyChange)

		bodyHigh := math.Max(open, closePrice)
		bodyLow := math.Min(open, closePrice)
		bodySize := bodyHigh - bodyLow

		high := bodyHigh + bodySize*(0.005+st.draw()*0.015)
		low := bodyLow - bodySize*(0.005+st.draw()*0.015)

		c := market.Candle{
			Open:  round4(open),
			High:  round4(high),
			Low:   round4(low),
			Close: round4(closePrice),
		}
		c.Clamp()
		candles = append(candles, c)

		// the rounded close carries forward so the series agrees with
		// its own displayed values
		previousClose = c.Close
	}

	today := s.now()
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, today.AddDate(0, 0, -(days-1-i)).Format("01/02"))
	}

	return &market.CandleSeries{Symbol: a.Symbol, Dates: dates, Candles: candles}
}

func storedSeries(symbol string, rows []market.HistoricalPrice) *market.CandleSeries {
	series := &market.CandleSeries{
		Symbol:  symbol,
		Dates:   make([]string, 0, len(rows)),
		Candles: make([]market.Candle, 0, len(rows)),
	}
	for _, row := range rows {
		label := row.Date
		if d, err := time.Parse("2006-01-02", row.Date); err == nil {
			label = d.Format("01/02")
		}
		series.Dates = append(series.Dates, label)
		series.Candles = append(series.Candles, market.Candle{
			Open:  row.Open,
			High:  row.High,
			Low:   row.Low,
			Close: row.Close,
		})
	}
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
