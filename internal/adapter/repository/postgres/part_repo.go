package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/postgres/generated"
	"github.com/iho/partledger/internal/usecase"
)

// PartRepository implements usecase.PartRepository.
type PartRepository struct {
	queries *generated.Queries
}

// NewPartRepository creates a new PartRepository.
func NewPartRepository(db generated.DBTX) *PartRepository {
	return &PartRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new part.
func (r *PartRepository) Create(ctx context.Context, part *domain.Part) error {
	err := r.queries.CreatePart(ctx, generated.CreatePartParams{
		Name:            part.Name,
		Category:        part.Category,
		Quantity:        part.Quantity,
		OpeningQuantity: part.OpeningQuantity,
		UnitPrice:       decimalToNumeric(part.UnitPrice),
		CreatedAt:       timeToPgTimestamptz(part.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(part.UpdatedAt),
	})
	if pgErrorCode(err) == pgErrUniqueViolation {
		return domain.ErrDuplicatePart
	}

	return err
}

// GetByName retrieves a part by name.
func (r *PartRepository) GetByName(ctx context.Context, name string) (*domain.Part, error) {
	row, err := r.queries.GetPartByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartNotFound
		}

		return nil, err
	}

	return rowToPart(row), nil
}

// GetByNameForUpdate retrieves a part with a FOR UPDATE lock held until tx ends.
func (r *PartRepository) GetByNameForUpdate(ctx context.Context, tx usecase.Transaction, name string) (*domain.Part, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetPartByNameForUpdate(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartNotFound
		}

		return nil, err
	}

	return rowToPart(row), nil
}

// UpdateQuantity writes the quantity of a locked part.
func (r *PartRepository) UpdateQuantity(ctx context.Context, tx usecase.Transaction, name string, quantity int64, updatedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdatePartQuantity(ctx, generated.UpdatePartQuantityParams{
		Name:      name,
		Quantity:  quantity,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPartNotFound
	}

	return nil
}

// Update overwrites category, quantity and unit price.
func (r *PartRepository) Update(ctx context.Context, part *domain.Part) error {
	n, err := r.queries.UpdatePart(ctx, generated.UpdatePartParams{
		Name:      part.Name,
		Category:  part.Category,
		Quantity:  part.Quantity,
		UnitPrice: decimalToNumeric(part.UnitPrice),
		UpdatedAt: timeToPgTimestamptz(part.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPartNotFound
	}

	return nil
}

// Delete removes a part. Stock history makes the foreign keys reject the delete.
func (r *PartRepository) Delete(ctx context.Context, tx usecase.Transaction, name string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.DeletePart(ctx, name)
	if err != nil {
		if pgErrorCode(err) == pgErrForeignKeyViolation {
			return domain.ErrHasHistory
		}
		return err
	}
	if n == 0 {
		return domain.ErrPartNotFound
	}

	return nil
}

// List returns all parts ordered by name.
func (r *PartRepository) List(ctx context.Context) ([]*domain.Part, error) {
	rows, err := r.queries.ListParts(ctx)
	if err != nil {
		return nil, err
	}

	parts := make([]*domain.Part, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, rowToPart(row))
	}

	return parts, nil
}

func rowToPart(row generated.SparePart) *domain.Part {
	return &domain.Part{
		Name:            row.Name,
		Category:        row.Category,
		Quantity:        row.Quantity,
		OpeningQuantity: row.OpeningQuantity,
		UnitPrice:       numericToDecimal(row.UnitPrice),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
