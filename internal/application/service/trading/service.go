package trading

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	market "main/internal/domain/entity/market"
	trading "main/internal/domain/entity/trading"
	interfaces "main/internal/domain/interfaces"
)

var (
	ErrUnitsFormat    = errors.New("units must be a number")
	ErrMinUnits       = errors.New("number of units must be at least 1.00")
	ErrUnitsPrecision = errors.New("number of units can have maximum 2 decimal places")
	ErrPinFormat      = errors.New("pin must be exactly 4 digits")
	ErrPinMismatch    = errors.New("incorrect pin")
	ErrNoPendingOrder = errors.New("no pending order found")
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// Service drives the purchase workflow: stage a pending order, verify
// the wallet PIN, append to the session ledger. All state lives in the
// session passed by the caller; the service itself is stateless.
type Service struct {
	catalog *market.Catalog
	pins    interfaces.PinStore
	now     func() time.Time
}

// NewService builds the workflow around the catalog and the shared
// PIN store.
func NewService(catalog *market.Catalog, pins interfaces.PinStore) *Service {
	return &Service{
		catalog: catalog,
		pins:    pins,
		now:     time.Now,
	}
}

// StartPurchase validates the buy input and stages a PendingOrder on
// the session, replacing any stale one. Units are validated on the
// literal input string so "10.100" style float artifacts cannot slip
// past the two-decimal rule. The market price is captured here and
// not re-fetched at commit time.
func (s *Service) StartPurchase(session *trading.Session, symbol, unitsLiteral string, marketPrice float64) (*trading.PendingOrder, error) {
	asset, err := s.catalog.Get(symbol)
	if err != nil {
		return nil, err
	}

	units, err := parseUnits(unitsLiteral)
	if err != nil {
		return nil, err
	}

	pending := &trading.PendingOrder{
		Symbol:      asset.Symbol,
		Units:       units,
		MarketPrice: marketPrice,
		TotalCost:   units * marketPrice,
	}
	session.Pending = pending
	return pending, nil
}

// PendingOrder returns the staged order, if any.
func (s *Service) PendingOrder(session *trading.Session) (*trading.PendingOrder, error) {
	if session.Pending == nil {
		return nil, ErrNoPendingOrder
	}
	return session.Pending, nil
}

// AuthorizePurchase commits the staged order once the PIN checks out.
// A wrong or malformed PIN keeps the pending order in place so the
// user can retry; a missing pending order fails outright, which is
// what makes a replayed submission after success a no-op.
func (s *Service) AuthorizePurchase(session *trading.Session, pin string) (*trading.Order, error) {
	if session.Pending == nil {
		return nil, ErrNoPendingOrder
	}
	if err := s.verifyPin(pin); err != nil {
		return nil, err
	}

	order := trading.Order{
		Symbol:    session.Pending.Symbol,
		Units:     session.Pending.Units,
		Price:     session.Pending.MarketPrice,
		Timestamp: s.now(),
	}
	session.Orders = append(session.Orders, order)
	session.Pending = nil
	return &order, nil
}

// ListOrders returns the session ledger, most recent first.
func (s *Service) ListOrders(session *trading.Session) []trading.Order {
	return session.OrdersNewestFirst()
}

// Login marks the session authenticated after a PIN check.
func (s *Service) Login(session *trading.Session, pin string) error {
	if err := s.verifyPin(pin); err != nil {
		return err
	}
	session.Authenticated = true
	return nil
}

// ResetPin swaps the accepted wallet PIN after verifying the current
// one.
func (s *Service) ResetPin(currentPin, newPin string) error {
	if err := s.verifyPin(currentPin); err != nil {
		return err
	}
	if !pinPattern.MatchString(newPin) {
		return ErrPinFormat
	}
	return s.pins.Set(newPin)
}

func (s *Service) verifyPin(pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrPinFormat
	}
	if pin != s.pins.Current() {
		return ErrPinMismatch
	}
	return nil
}

// parseUnits checks the literal against the minimum and the decimal
// limit, in that order: at least 1.00 and at most two decimal digits.
func parseUnits(literal string) (float64, error) {
	literal = strings.TrimSpace(literal)
	units, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, ErrUnitsFormat
	}
	if units < 1.0 {
		return 0, ErrMinUnits
	}
	if dot := strings.IndexByte(literal, '.'); dot >= 0 {
		if len(literal)-dot-1 > 2 {
			return 0, ErrUnitsPrecision
		}
	}
	return units, nil
}
