package memory

import (
	"context"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	db *DB
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(db *DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Create stages a ledger entry. The commit fails if the part does not exist.
func (r *MovementRepository) Create(_ context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	m := *movement
	return mtx.stage(stagedOp{
		check: func() error {
			if _, ok := r.db.parts[m.PartName]; !ok {
				return domain.ErrPartNotFound
			}
			return nil
		},
		apply: func() {
			r.db.movements = append(r.db.movements, &m)
		},
	})
}

// CountByPart counts committed entries of both streams that reference partName.
func (r *MovementRepository) CountByPart(_ context.Context, tx usecase.Transaction, partName string) (int64, error) {
	if _, err := asTx(tx); err != nil {
		return 0, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.db.countMovements(partName), nil
}

// ListByPart returns entries of a part, newest first.
func (r *MovementRepository) ListByPart(_ context.Context, partName string, limit, offset int) ([]*domain.Movement, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var result []*domain.Movement
	skipped := 0
	for i := len(r.db.movements) - 1; i >= 0 && len(result) < limit; i-- {
		m := r.db.movements[i]
		if m.PartName != partName {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		c := *m
		result = append(result, &c)
	}
	return result, nil
}
