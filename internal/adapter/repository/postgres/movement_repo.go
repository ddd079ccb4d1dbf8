package postgres

import (
	"context"
	"fmt"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/postgres/generated"
	"github.com/iho/partledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository over the stock_in
// and stock_out tables.
type MovementRepository struct {
	queries *generated.Queries
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(db generated.DBTX) *MovementRepository {
	return &MovementRepository{
		queries: generated.New(db),
	}
}

// Create appends a movement to the table of its direction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, m *domain.Movement) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	switch m.Direction {
	case domain.DirectionIn:
		err = queries.CreateStockIn(ctx, generated.CreateStockInParams{
			ID:               m.ID,
			PartName:         m.PartName,
			MovementDate:     timeToPgDate(m.Date),
			Quantity:         m.Quantity,
			PreviousQuantity: m.PreviousQuantity,
			CurrentQuantity:  m.CurrentQuantity,
			CreatedAt:        timeToPgTimestamptz(m.CreatedAt),
		})
	case domain.DirectionOut:
		err = queries.CreateStockOut(ctx, generated.CreateStockOutParams{
			ID:               m.ID,
			PartName:         m.PartName,
			MovementDate:     timeToPgDate(m.Date),
			Quantity:         m.Quantity,
			PreviousQuantity: m.PreviousQuantity,
			CurrentQuantity:  m.CurrentQuantity,
			CreatedAt:        timeToPgTimestamptz(m.CreatedAt),
		})
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidDirection, m.Direction)
	}

	if pgErrorCode(err) == pgErrForeignKeyViolation {
		return domain.ErrPartNotFound
	}

	return err
}

// CountByPart counts stock-in and stock-out rows referencing partName.
func (r *MovementRepository) CountByPart(ctx context.Context, tx usecase.Transaction, partName string) (int64, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return 0, err
	}

	return queries.CountMovementsByPart(ctx, partName)
}

// ListByPart returns movements of a part, newest first.
func (r *MovementRepository) ListByPart(ctx context.Context, partName string, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.queries.ListMovementsByPart(ctx, generated.ListMovementsByPartParams{
		PartName: partName,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	movements := make([]*domain.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, &domain.Movement{
			ID:               row.ID,
			Direction:        domain.Direction(row.Direction),
			PartName:         row.PartName,
			Date:             row.MovementDate.Time,
			Quantity:         row.Quantity,
			PreviousQuantity: row.PreviousQuantity,
			CurrentQuantity:  row.CurrentQuantity,
			CreatedAt:        row.CreatedAt.Time,
		})
	}

	return movements, nil
}
