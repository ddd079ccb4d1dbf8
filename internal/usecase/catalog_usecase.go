package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partledger/internal/domain"
)

// CatalogUseCase handles the part catalog and the deletion guard.
type CatalogUseCase struct {
	txManager    TransactionManager
	partRepo     PartRepository
	movementRepo MovementRepository
}

// NewCatalogUseCase creates a new CatalogUseCase.
func NewCatalogUseCase(
	txManager TransactionManager,
	partRepo PartRepository,
	movementRepo MovementRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		txManager:    txManager,
		partRepo:     partRepo,
		movementRepo: movementRepo,
	}
}

// PartInput represents input for creating or overwriting a part.
type PartInput struct {
	Name      string
	Category  string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// ListParts lists all parts ordered by name.
func (uc *CatalogUseCase) ListParts(ctx context.Context) ([]*domain.Part, error) {
	return uc.partRepo.List(ctx)
}

// GetPart retrieves a part by name.
func (uc *CatalogUseCase) GetPart(ctx context.Context, name string) (*domain.Part, error) {
	return uc.partRepo.GetByName(ctx, name)
}

// AddPart inserts a new part. The initial quantity is kept as the opening quantity.
func (uc *CatalogUseCase) AddPart(ctx context.Context, input PartInput) (*domain.Part, error) {
	now := time.Now().UTC()

	part := &domain.Part{
		Name:            input.Name,
		Category:        input.Category,
		Quantity:        input.Quantity,
		OpeningQuantity: input.Quantity,
		UnitPrice:       input.UnitPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := part.Validate(); err != nil {
		return nil, err
	}

	if err := uc.partRepo.Create(ctx, part); err != nil {
		return nil, err
	}

	return part, nil
}

// UpdatePart overwrites category, quantity and unit price of an existing part.
// The quantity is written as given and is not reflected in the ledger.
func (uc *CatalogUseCase) UpdatePart(ctx context.Context, input PartInput) (*domain.Part, error) {
	part := &domain.Part{
		Name:      input.Name,
		Category:  input.Category,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
		UpdatedAt: time.Now().UTC(),
	}

	if err := part.Validate(); err != nil {
		return nil, err
	}

	if err := uc.partRepo.Update(ctx, part); err != nil {
		return nil, err
	}

	return uc.partRepo.GetByName(ctx, part.Name)
}

// CanDelete reports whether no ledger entry references the part.
func (uc *CatalogUseCase) CanDelete(ctx context.Context, name string) (bool, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	return uc.canDelete(ctx, tx, name)
}

func (uc *CatalogUseCase) canDelete(ctx context.Context, tx Transaction, name string) (bool, error) {
	count, err := uc.movementRepo.CountByPart(ctx, tx, name)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// RemovePart deletes a part that has no stock history.
func (uc *CatalogUseCase) RemovePart(ctx context.Context, name string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the row so no movement can be appended between the check and the delete.
	if _, err := uc.partRepo.GetByNameForUpdate(ctx, tx, name); err != nil {
		return err
	}

	ok, err := uc.canDelete(ctx, tx, name)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrHasHistory
	}

	if err := uc.partRepo.Delete(ctx, tx, name); err != nil {
		if errors.Is(err, domain.ErrHasHistory) || errors.Is(err, domain.ErrPartNotFound) {
			return err
		}
		return fmt.Errorf("delete part %q: %w", name, err)
	}

	return tx.Commit(ctx)
}
