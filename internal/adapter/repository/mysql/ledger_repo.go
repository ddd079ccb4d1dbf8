package mysql

import (
	"context"
	"database/sql"

	"github.com/iho/partledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// PartTotals reads quantities and ledger sums with a single consistent read.
func (r *LedgerRepository) PartTotals(ctx context.Context) ([]domain.PartTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.name, p.quantity, p.opening_quantity,
		       CAST(COALESCE(si.total, 0) AS SIGNED), CAST(COALESCE(so.total, 0) AS SIGNED)
		FROM spare_parts p
		LEFT JOIN (SELECT part_name, SUM(quantity) AS total FROM stock_in GROUP BY part_name) si ON si.part_name = p.name
		LEFT JOIN (SELECT part_name, SUM(quantity) AS total FROM stock_out GROUP BY part_name) so ON so.part_name = p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []domain.PartTotals{}
	for rows.Next() {
		var t domain.PartTotals
		if err := rows.Scan(&t.PartName, &t.Quantity, &t.OpeningQuantity, &t.StockIn, &t.StockOut); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}
