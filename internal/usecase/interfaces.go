package usecase

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"time"

	"github.com/iho/partledger/internal/domain"
)

// PartRepository defines data access for the part catalog.
type PartRepository interface {
	Create(ctx context.Context, part *domain.Part) error
	GetByName(ctx context.Context, name string) (*domain.Part, error)
	GetByNameForUpdate(ctx context.Context, tx Transaction, name string) (*domain.Part, error)
	UpdateQuantity(ctx context.Context, tx Transaction, name string, quantity int64, updatedAt time.Time) error
	Update(ctx context.Context, part *domain.Part) error
	Delete(ctx context.Context, tx Transaction, name string) error
	List(ctx context.Context) ([]*domain.Part, error)
}

// MovementRepository defines data access for the append-only stock-in and stock-out streams.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	CountByPart(ctx context.Context, tx Transaction, partName string) (int64, error)
	ListByPart(ctx context.Context, partName string, limit, offset int) ([]*domain.Movement, error)
}

// LedgerRepository defines data access for ledger-wide reads.
type LedgerRepository interface {
	// PartTotals returns catalog quantities and ledger sums read from one snapshot.
	PartTotals(ctx context.Context) ([]domain.PartTotals, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// SessionStore keeps server-side login sessions.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenManager signs and verifies session tokens.
type TokenManager interface {
	Generate(session *domain.Session) (string, error)
	// Verify returns the session ID carried by a valid token.
	Verify(token string) (string, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}
