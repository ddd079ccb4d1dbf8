package postgres

import (
	"context"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// PartTotals reads quantities and ledger sums in one statement, so all rows
// come from the same snapshot.
func (r *LedgerRepository) PartTotals(ctx context.Context) ([]domain.PartTotals, error) {
	rows, err := r.queries.GetPartTotals(ctx)
	if err != nil {
		return nil, err
	}

	totals := make([]domain.PartTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.PartTotals{
			PartName:        row.Name,
			Quantity:        row.Quantity,
			OpeningQuantity: row.OpeningQuantity,
			StockIn:         row.StockIn,
			StockOut:        row.StockOut,
		})
	}

	return totals, nil
}
