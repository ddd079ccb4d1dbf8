package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/partledger/internal/domain"
)

// StockUseCase coordinates stock movements: every movement appends a ledger
// entry and updates the part quantity in one transaction.
type StockUseCase struct {
	txManager    TransactionManager
	partRepo     PartRepository
	movementRepo MovementRepository
	idGen        IDGenerator
	txTimeout    time.Duration
	now          func() time.Time
}

// StockOption configures a StockUseCase.
type StockOption func(*StockUseCase)

// WithTransactionTimeout overrides DefaultTransactionTimeout.
func WithTransactionTimeout(d time.Duration) StockOption {
	return func(uc *StockUseCase) {
		if d > 0 {
			uc.txTimeout = d
		}
	}
}

// NewStockUseCase creates a new StockUseCase.
func NewStockUseCase(
	txManager TransactionManager,
	partRepo PartRepository,
	movementRepo MovementRepository,
	idGen IDGenerator,
	opts ...StockOption,
) *StockUseCase {
	uc := &StockUseCase{
		txManager:    txManager,
		partRepo:     partRepo,
		movementRepo: movementRepo,
		idGen:        idGen,
		txTimeout:    DefaultTransactionTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// StockMovementInput represents a stock-in or stock-out request.
type StockMovementInput struct {
	Date     time.Time
	Quantity int64
	PartName string
}

// StockIn records a receipt and increments the part quantity.
func (uc *StockUseCase) StockIn(ctx context.Context, input StockMovementInput) (*domain.Movement, error) {
	return uc.record(ctx, domain.DirectionIn, input)
}

// StockOut records an issue and decrements the part quantity.
// It fails with *domain.InsufficientStockError when the part holds fewer units than requested.
func (uc *StockUseCase) StockOut(ctx context.Context, input StockMovementInput) (*domain.Movement, error) {
	return uc.record(ctx, domain.DirectionOut, input)
}

func (uc *StockUseCase) record(ctx context.Context, direction domain.Direction, input StockMovementInput) (*domain.Movement, error) {
	movement := &domain.Movement{
		Direction: direction,
		Date:      input.Date,
		Quantity:  input.Quantity,
		PartName:  input.PartName,
	}

	// 1. Validate request shape before touching storage
	if err := movement.Validate(); err != nil {
		return nil, err
	}

	// The caller going away must not leave the movement half-applied, so the
	// transaction only obeys its own deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.txTimeout)
	defer cancel()

	// 2. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, transactionFailed(err)
	}
	defer tx.Rollback(ctx)

	// 3. Lock the part row; concurrent movements on the same part queue here
	part, err := uc.partRepo.GetByNameForUpdate(ctx, tx, input.PartName)
	if err != nil {
		if errors.Is(err, domain.ErrPartNotFound) {
			return nil, err
		}
		return nil, transactionFailed(err)
	}

	// 4. Check sufficiency against the locked snapshot
	newQuantity, err := part.Apply(direction, input.Quantity)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	movement.ID = uc.idGen.Generate()
	movement.PreviousQuantity = part.Quantity
	movement.CurrentQuantity = newQuantity
	movement.CreatedAt = now

	// 5. Append ledger entry and write the new quantity
	if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, transactionFailed(err)
	}

	if err := uc.partRepo.UpdateQuantity(ctx, tx, part.Name, newQuantity, now); err != nil {
		return nil, transactionFailed(err)
	}

	// 6. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return nil, transactionFailed(err)
	}

	return movement, nil
}

func transactionFailed(err error) error {
	if errors.Is(err, domain.ErrTransactionFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, err)
}
