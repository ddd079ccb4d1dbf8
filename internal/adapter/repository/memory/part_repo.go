package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

// PartRepository implements usecase.PartRepository.
type PartRepository struct {
	db *DB
}

// NewPartRepository creates a new PartRepository.
func NewPartRepository(db *DB) *PartRepository {
	return &PartRepository{db: db}
}

// Create inserts a new part.
func (r *PartRepository) Create(_ context.Context, part *domain.Part) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.parts[part.Name]; ok {
		return domain.ErrDuplicatePart
	}
	r.db.parts[part.Name] = copyPart(part)
	return nil
}

// GetByName retrieves a part by name.
func (r *PartRepository) GetByName(_ context.Context, name string) (*domain.Part, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.parts[name]
	if !ok {
		return nil, domain.ErrPartNotFound
	}
	return copyPart(p), nil
}

// GetByNameForUpdate locks the part for the rest of tx and returns it.
func (r *PartRepository) GetByNameForUpdate(ctx context.Context, tx usecase.Transaction, name string) (*domain.Part, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if err := mtx.lock(ctx, name); err != nil {
		return nil, err
	}

	return r.GetByName(ctx, name)
}

// UpdateQuantity stages a quantity write.
func (r *PartRepository) UpdateQuantity(_ context.Context, tx usecase.Transaction, name string, quantity int64, updatedAt time.Time) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	return mtx.stage(stagedOp{
		check: func() error {
			if _, ok := r.db.parts[name]; !ok {
				return domain.ErrPartNotFound
			}
			return nil
		},
		apply: func() {
			p := r.db.parts[name]
			p.Quantity = quantity
			p.UpdatedAt = updatedAt
		},
	})
}

// Update overwrites category, quantity and unit price.
func (r *PartRepository) Update(ctx context.Context, part *domain.Part) error {
	if err := r.db.lockPart(ctx, part.Name); err != nil {
		return err
	}
	defer r.db.unlockPart(part.Name)

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.parts[part.Name]
	if !ok {
		return domain.ErrPartNotFound
	}
	p.Category = part.Category
	p.Quantity = part.Quantity
	p.UnitPrice = part.UnitPrice
	p.UpdatedAt = part.UpdatedAt
	return nil
}

// Delete stages removal of a part. The commit fails if any movement references it.
func (r *PartRepository) Delete(_ context.Context, tx usecase.Transaction, name string) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	return mtx.stage(stagedOp{
		check: func() error {
			if _, ok := r.db.parts[name]; !ok {
				return domain.ErrPartNotFound
			}
			if r.db.countMovements(name) > 0 {
				return domain.ErrHasHistory
			}
			return nil
		},
		apply: func() {
			delete(r.db.parts, name)
		},
	})
}

// List returns all parts ordered by name.
func (r *PartRepository) List(_ context.Context) ([]*domain.Part, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	parts := make([]*domain.Part, 0, len(r.db.parts))
	for _, p := range r.db.parts {
		parts = append(parts, copyPart(p))
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })
	return parts, nil
}
