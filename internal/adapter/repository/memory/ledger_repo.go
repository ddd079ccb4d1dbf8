package memory

import (
	"context"
	"sort"

	"github.com/iho/partledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// PartTotals aggregates every part under one read lock.
func (r *LedgerRepository) PartTotals(_ context.Context) ([]domain.PartTotals, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	byName := make(map[string]*domain.PartTotals, len(r.db.parts))
	for name, p := range r.db.parts {
		byName[name] = &domain.PartTotals{
			PartName:        name,
			Quantity:        p.Quantity,
			OpeningQuantity: p.OpeningQuantity,
		}
	}

	for _, m := range r.db.movements {
		t, ok := byName[m.PartName]
		if !ok {
			continue
		}
		switch m.Direction {
		case domain.DirectionIn:
			t.StockIn += m.Quantity
		case domain.DirectionOut:
			t.StockOut += m.Quantity
		}
	}

	totals := make([]domain.PartTotals, 0, len(byName))
	for _, t := range byName {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].PartName < totals[j].PartName })
	return totals, nil
}
