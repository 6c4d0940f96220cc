package pin

import (
	"errors"
	"regexp"
	"sync"
)

var ErrBadFormat = errors.New("pin must be exactly 4 digits")

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// Store holds the single shared wallet PIN. It is mutable through the
// reset flow, so reads and writes are guarded.
type Store struct {
	mu      sync.RWMutex
	current string
}

// NewStore validates the initial PIN format.
func NewStore(initial string) (*Store, error) {
	if !pinPattern.MatchString(initial) {
		return nil, ErrBadFormat
	}
	return &Store{current: initial}, nil
}

func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Set(pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrBadFormat
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = pin
	return nil
}
