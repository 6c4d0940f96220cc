package trading

import (
	"time"

	"github.com/google/uuid"
)

// Session holds the state owned by one logical user: the login flag,
// the optional staged order and the append-only order ledger. It is
// exported field-for-field so stores can serialize it as JSON.
type Session struct {
	ID            uuid.UUID     `json:"id"`
	Authenticated bool          `json:"authenticated"`
	Pending       *PendingOrder `json:"pending,omitempty"`
	Orders        []Order       `json:"orders"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewSession creates an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
}

// PurchasedUnits folds the ledger for one symbol. Holdings are always
// derived this way rather than stored, so they cannot drift.
func (s *Session) PurchasedUnits(symbol string) float64 {
	var units float64
	for _, o := range s.Orders {
		if o.Symbol == symbol {
			units += o.Units
		}
	}
	return units
}

// OrdersNewestFirst returns the ledger in reverse insertion order.
func (s *Session) OrdersNewestFirst() []Order {
	out := make([]Order, 0, len(s.Orders))
	for i := len(s.Orders) - 1; i >= 0; i-- {
		out = append(out, s.Orders[i])
	}
	return out
}
