package usecase

import (
	"context"

	"github.com/iho/partledger/internal/domain"
)

// ReconciliationReport is the result of comparing catalog quantities against the ledger.
type ReconciliationReport struct {
	PartsChecked int
	Consistent   bool
	Mismatches   []domain.PartTotals
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo   LedgerRepository
	movementRepo MovementRepository
	partRepo     PartRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, movementRepo MovementRepository, partRepo PartRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:   ledgerRepo,
		movementRepo: movementRepo,
		partRepo:     partRepo,
	}
}

// CheckConsistency verifies that every part quantity equals its opening
// quantity plus stock-in minus stock-out and is not negative.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ReconciliationReport, error) {
	totals, err := uc.ledgerRepo.PartTotals(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		PartsChecked: len(totals),
		Consistent:   true,
		Mismatches:   []domain.PartTotals{},
	}

	for _, t := range totals {
		if !t.IsConsistent() {
			report.Consistent = false
			report.Mismatches = append(report.Mismatches, t)
		}
	}

	return report, nil
}

// ListMovements returns the ledger history of a part, newest first.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, partName string, limit, offset int) ([]*domain.Movement, error) {
	if _, err := uc.partRepo.GetByName(ctx, partName); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.movementRepo.ListByPart(ctx, partName, limit, offset)
}
