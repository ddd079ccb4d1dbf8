package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds every stock movement transaction.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultSessionTTL is how long a login session stays valid.
	DefaultSessionTTL = 12 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyPending is stored under an idempotency key while its request is in flight.
const IdempotencyPending = "processing"
