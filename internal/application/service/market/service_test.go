package market

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	market "main/internal/domain/entity/market"
	trading "main/internal/domain/entity/trading"
)

type stubHistory struct {
	rows []market.HistoricalPrice
	err  error
}

func (s *stubHistory) Upsert(context.Context, market.HistoricalPrice) error { return s.err }

func (s *stubHistory) FetchForSymbol(_ context.Context, _ string, limit int) ([]market.HistoricalPrice, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > len(s.rows) {
		limit = len(s.rows)
	}
	return s.rows[:limit], nil
}

func (s *stubHistory) Recent(_ context.Context, _ string, limit int) ([]market.HistoricalPrice, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]market.HistoricalPrice, 0, limit)
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

func (s *stubHistory) ClearSymbol(context.Context, string) error { return s.err }

func (s *stubHistory) Close() {}

func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(history *stubHistory) *Service {
	var svc *Service
	if history != nil {
		svc = NewService(market.DefaultCatalog(), history)
	} else {
		svc = NewService(market.DefaultCatalog(), nil)
	}
	svc.now = fixedTime(time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC))
	return svc
}

func TestCandleSeriesIsDeterministic(t *testing.T) {
	svc := newTestService(nil)

	first, err := svc.GetCandleSeries(context.Background(), "BTC", 30)
	if err != nil {
		t.Fatalf("GetCandleSeries: %v", err)
	}
	second, err := svc.GetCandleSeries(context.Background(), "BTC", 30)
	if err != nil {
		t.Fatalf("GetCandleSeries: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same symbol and length produced different series")
	}
	if len(first.Candles) != 30 || len(first.Dates) != 30 {
		t.Fatalf("expected 30 candles and dates, got %d/%d", len(first.Candles), len(first.Dates))
	}
}

func TestCandleSeriesWickInvariant(t *testing.T) {
	svc := newTestService(nil)

	for _, a := range svc.Assets() {
		for _, days := range []int{2, 5, 30, 90} {
			series, err := svc.GetCandleSeries(context.Background(), a.Symbol, days)
			if err != nil {
				t.Fatalf("%s/%d: %v", a.Symbol, days, err)
			}
			for i, c := range series.Candles {
				if c.High < math.Max(c.Open, c.Close) {
					t.Errorf("%s/%d candle %d: high %v < body high", a.Symbol, days, i, c.High)
				}
				if c.Low > math.Min(c.Open, c.Close) {
					t.Errorf("%s/%d candle %d: low %v > body low", a.Symbol, days, i, c.Low)
				}
			}
		}
	}
}

func TestCandleSeriesRounding(t *testing.T) {
	svc := newTestService(nil)

	series, err := svc.GetCandleSeries(context.Background(), "ETH", 30)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range series.Candles {
		for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
			if round4(v) != v {
				t.Errorf("candle %d: %v not rounded to 4 decimals", i, v)
			}
		}
	}
}

func TestCandleSeriesErrors(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.GetCandleSeries(context.Background(), "ZZZ", 30); !errors.Is(err, market.ErrAssetNotFound) {
		t.Errorf("unknown symbol: got %v", err)
	}
	if _, err := svc.GetCandleSeries(context.Background(), "BTC", 1); !errors.Is(err, ErrInvalidSeriesLength) {
		t.Errorf("days=1: got %v", err)
	}
	if _, err := svc.GetCandleSeries(context.Background(), "BTC", 0); !errors.Is(err, ErrInvalidSeriesLength) {
		t.Errorf("days=0: got %v", err)
	}
}

func TestCandleSeriesPrefersStoredRows(t *testing.T) {
	history := &stubHistory{rows: []market.HistoricalPrice{
		{Symbol: "BTC", Date: "2026-08-26", Open: 100, High: 110, Low: 95, Close: 105},
		{Symbol: "BTC", Date: "2026-08-27", Open: 105, High: 112, Low: 101, Close: 108},
	}}
	svc := newTestService(history)

	series, err := svc.GetCandleSeries(context.Background(), "BTC", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(series.Candles) != 2 {
		t.Fatalf("expected 2 stored candles, got %d", len(series.Candles))
	}
	if series.Candles[0].Close != 105 || series.Candles[1].Close != 108 {
		t.Errorf("unexpected candles: %+v", series.Candles)
	}
	if series.Dates[0] != "08/26" || series.Dates[1] != "08/27" {
		t.Errorf("unexpected dates: %v", series.Dates)
	}
}

func TestCandleSeriesFallsBackWhenStoreErrors(t *testing.T) {
	broken := &stubHistory{err: errors.New("connection refused")}
	svc := newTestService(broken)
	clean := newTestService(nil)

	got, err := svc.GetCandleSeries(context.Background(), "BTC", 30)
	if err != nil {
		t.Fatalf("expected synthetic fallback, got %v", err)
	}
	want, _ := clean.GetCandleSeries(context.Background(), "BTC", 30)
	if !reflect.DeepEqual(got, want) {
		t.Error("fallback series differs from synthetic series")
	}
}

func TestQuotesStableWithinBucket(t *testing.T) {
	svc := newTestService(nil)

	first := svc.GetQuotes(context.Background(), nil)
	// 20 minutes later, same hour bucket
	svc.now = fixedTime(time.Date(2026, 8, 28, 10, 50, 0, 0, time.UTC))
	second := svc.GetQuotes(context.Background(), nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("quotes changed within the same hourly bucket")
	}
}

func TestQuotesChangeAcrossBuckets(t *testing.T) {
	svc := newTestService(nil)

	first, err := svc.GetQuote(context.Background(), "BTC", nil)
	if err != nil {
		t.Fatal(err)
	}
	svc.now = fixedTime(time.Date(2026, 8, 28, 11, 30, 0, 0, time.UTC))
	second, err := svc.GetQuote(context.Background(), "BTC", nil)
	if err != nil {
		t.Fatal(err)
	}

	if reflect.DeepEqual(first, second) {
		t.Fatal("expected quote to differ across hourly buckets")
	}
}

func TestQuoteShape(t *testing.T) {
	svc := newTestService(nil)

	q, err := svc.GetQuote(context.Background(), "BTC", nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(q.Exchanges) != 2 {
		t.Fatalf("expected 2 exchange prices, got %d", len(q.Exchanges))
	}
	binance, coinbase := q.Exchanges["Binance"], q.Exchanges["Coinbase"]
	if binance.Price >= coinbase.Price {
		t.Errorf("spread not split around base: binance %v, coinbase %v", binance.Price, coinbase.Price)
	}

	mean := round2((binance.Price + coinbase.Price) / 2)
	// overall price is the mean of unrounded venue prices; allow the
	// displayed-venue rounding to move it by at most a cent
	if math.Abs(q.OverallPrice-mean) > 0.01 {
		t.Errorf("overall %v too far from venue mean %v", q.OverallPrice, mean)
	}

	if q.ChangePercent < -8.0 || q.ChangePercent > 12.0 {
		t.Errorf("change %v outside [-8, 12]", q.ChangePercent)
	}
	if len(q.PriceHistory) != sparklinePoints {
		t.Errorf("expected %d sparkline points, got %d", sparklinePoints, len(q.PriceHistory))
	}
	if q.Quantity != q.InitialQuantity {
		t.Errorf("no session: quantity %v should equal initial %v", q.Quantity, q.InitialQuantity)
	}
}

func TestQuoteFoldsSessionHoldings(t *testing.T) {
	svc := newTestService(nil)

	sess := trading.NewSession()
	sess.Orders = append(sess.Orders,
		trading.Order{Symbol: "BTC", Units: 2.0, Price: 94245.50, Timestamp: time.Now()},
		trading.Order{Symbol: "BTC", Units: 0.5 + 1, Price: 94000, Timestamp: time.Now()},
	)

	q, err := svc.GetQuote(context.Background(), "BTC", sess)
	if err != nil {
		t.Fatal(err)
	}
	want := 2.5 + 2.0 + 1.5
	if q.Quantity != want {
		t.Errorf("quantity = %v, want %v", q.Quantity, want)
	}
	if q.EstimatedValue != round2(q.Quantity*q.OverallPrice) {
		t.Errorf("estimated value %v does not match quantity*price", q.EstimatedValue)
	}
}

func TestQuoteUsesHistoricalChange(t *testing.T) {
	history := &stubHistory{rows: []market.HistoricalPrice{
		{Symbol: "BTC", Date: "2026-08-27", Close: 100},
		{Symbol: "BTC", Date: "2026-08-28", Close: 110},
	}}
	svc := newTestService(history)

	q, err := svc.GetQuote(context.Background(), "BTC", nil)
	if err != nil {
		t.Fatal(err)
	}
	if q.ChangePercent != 10.0 {
		t.Errorf("change = %v, want 10 from stored closes", q.ChangePercent)
	}
}

func TestQuoteSyntheticChangeWithSingleRow(t *testing.T) {
	history := &stubHistory{rows: []market.HistoricalPrice{
		{Symbol: "BTC", Date: "2026-08-28", Close: 110},
	}}
	svc := newTestService(history)
	clean := newTestService(nil)

	withStore, err := svc.GetQuote(context.Background(), "BTC", nil)
	if err != nil {
		t.Fatal(err)
	}
	synthetic, err := clean.GetQuote(context.Background(), "BTC", nil)
	if err != nil {
		t.Fatal(err)
	}
	if withStore.ChangePercent != synthetic.ChangePercent {
		t.Errorf("one stored row must not override the synthetic change: %v vs %v",
			withStore.ChangePercent, synthetic.ChangePercent)
	}
}

func TestSymbolSeedIsStable(t *testing.T) {
	if symbolSeed("BTC") != symbolSeed("BTC") {
		t.Error("same symbol hashed to different seeds")
	}
	if symbolSeed("BTC") == symbolSeed("ETH") {
		t.Error("distinct symbols hashed to the same seed")
	}
}
