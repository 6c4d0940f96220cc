package interfaces

import (
	"context"
	"errors"

	trading "main/internal/domain/entity/trading"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps wallet sessions between requests. Implementations
// must return ErrSessionNotFound for unknown or expired IDs.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*trading.Session, error)
	Save(ctx context.Context, session *trading.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}
