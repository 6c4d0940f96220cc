package trading

import (
	"testing"
	"time"
)

func TestPurchasedUnitsFoldsLedger(t *testing.T) {
	s := NewSession()

	if got := s.PurchasedUnits("BTC"); got != 0 {
		t.Fatalf("empty ledger: got %v, want 0", got)
	}

	s.Orders = append(s.Orders, Order{Symbol: "BTC", Units: 2.0, Price: 94245.50, Timestamp: time.Now()})
	if got := s.PurchasedUnits("BTC"); got != 2.0 {
		t.Fatalf("after one order: got %v, want 2", got)
	}

	s.Orders = append(s.Orders,
		Order{Symbol: "BTC", Units: 1.5, Price: 94000, Timestamp: time.Now()},
		Order{Symbol: "ETH", Units: 3.0, Price: 6018, Timestamp: time.Now()},
	)
	if got := s.PurchasedUnits("BTC"); got != 3.5 {
		t.Errorf("after three orders: BTC got %v, want 3.5", got)
	}
	if got := s.PurchasedUnits("ETH"); got != 3.0 {
		t.Errorf("after three orders: ETH got %v, want 3", got)
	}
	if got := s.PurchasedUnits("DOT"); got != 0 {
		t.Errorf("untouched symbol: got %v, want 0", got)
	}
}

func TestOrdersNewestFirst(t *testing.T) {
	s := NewSession()
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.Orders = append(s.Orders, Order{
			Symbol:    "ADA",
			Units:     float64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got := s.OrdersNewestFirst()
	if len(got) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(got))
	}
	if got[0].Units != 3 || got[1].Units != 2 || got[2].Units != 1 {
		t.Errorf("unexpected order: %+v", got)
	}
}

// Insertion order wins over timestamps, so a skewed clock cannot
// reorder the activity view.
func TestOrdersNewestFirstIgnoresClockSkew(t *testing.T) {
	s := NewSession()
	late := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	early := late.Add(-time.Hour)

	s.Orders = append(s.Orders,
		Order{Symbol: "SOL", Units: 1, Timestamp: late},
		Order{Symbol: "SOL", Units: 2, Timestamp: early},
	)

	got := s.OrdersNewestFirst()
	if got[0].Units != 2 {
		t.Errorf("expected last appended order first, got %+v", got[0])
	}
}
