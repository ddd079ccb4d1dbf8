package usecase_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/iho/partledger/internal/adapter/repository/memory"
	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

type ulidGen struct{}

func (ulidGen) Generate() string { return ulid.Make().String() }

type inventory struct {
	catalog *usecase.CatalogUseCase
	stock   *usecase.StockUseCase
	ledger  *usecase.LedgerUseCase
	parts   *memory.PartRepository
}

func newInventory(movements usecase.MovementRepository) *inventory {
	db := memory.NewDB()
	txMgr := memory.NewTxManager(db)
	parts := memory.NewPartRepository(db)
	if movements == nil {
		movements = memory.NewMovementRepository(db)
	}

	return &inventory{
		catalog: usecase.NewCatalogUseCase(txMgr, parts, movements),
		stock:   usecase.NewStockUseCase(txMgr, parts, movements, ulidGen{}),
		ledger:  usecase.NewLedgerUseCase(memory.NewLedgerRepository(db), movements, parts),
		parts:   parts,
	}
}

func (inv *inventory) addPart(t *testing.T, name string, qty int64) {
	t.Helper()
	_, err := inv.catalog.AddPart(context.Background(), usecase.PartInput{
		Name: name, Category: "Engine", Quantity: qty, UnitPrice: decimal.RequireFromString("25.00"),
	})
	if err != nil {
		t.Fatalf("add part: %v", err)
	}
}

func (inv *inventory) quantity(t *testing.T, name string) int64 {
	t.Helper()
	p, err := inv.parts.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("get part: %v", err)
	}
	return p.Quantity
}

func (inv *inventory) assertConsistent(t *testing.T) {
	t.Helper()
	report, err := inv.ledger.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("check consistency: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("ledger inconsistent: %+v", report.Mismatches)
	}
}

func input(name string, qty int64) usecase.StockMovementInput {
	return usecase.StockMovementInput{Date: movementDate, Quantity: qty, PartName: name}
}

func TestInventory_StockInThenOut(t *testing.T) {
	ctx := context.Background()
	inv := newInventory(nil)
	inv.addPart(t, "Brake Pad", 10)

	if _, err := inv.stock.StockIn(ctx, input("Brake Pad", 5)); err != nil {
		t.Fatalf("stock in: %v", err)
	}
	if _, err := inv.stock.StockOut(ctx, input("Brake Pad", 12)); err != nil {
		t.Fatalf("stock out: %v", err)
	}

	if got := inv.quantity(t, "Brake Pad"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	inv.assertConsistent(t)
}

func TestInventory_InsufficientStockLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	inv := newInventory(nil)
	inv.addPart(t, "Spark Plug", 3)

	_, err := inv.stock.StockOut(ctx, input("Spark Plug", 5))
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) || insufficient.Current != 3 {
		t.Fatalf("expected insufficient stock with current 3, got %v", err)
	}

	if got := inv.quantity(t, "Spark Plug"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	history, _ := inv.ledger.ListMovements(ctx, "Spark Plug", 10, 0)
	if len(history) != 0 {
		t.Fatalf("expected no ledger entries, got %d", len(history))
	}

	// Part without history can still be removed.
	if err := inv.catalog.RemovePart(ctx, "Spark Plug"); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestInventory_StockInOverflowIsRejected(t *testing.T) {
	ctx := context.Background()
	inv := newInventory(nil)
	inv.addPart(t, "Brake Pad", 50)

	_, err := inv.stock.StockIn(ctx, input("Brake Pad", math.MaxInt64))
	if !errors.Is(err, domain.ErrQuantityOverflow) || !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected quantity overflow, got %v", err)
	}

	if got := inv.quantity(t, "Brake Pad"); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	history, _ := inv.ledger.ListMovements(ctx, "Brake Pad", 10, 0)
	if len(history) != 0 {
		t.Fatalf("expected no ledger entries, got %d", len(history))
	}
	inv.assertConsistent(t)
}

func TestInventory_ConcurrentStockOutNeverOversells(t *testing.T) {
	ctx := context.Background()
	inv := newInventory(nil)
	inv.addPart(t, "Filter", 10)

	const workers = 20
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := inv.stock.StockOut(ctx, input("Filter", 1))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 10 || insufficient != 10 {
		t.Fatalf("expected 10 successes and 10 rejections, got %d and %d", succeeded, insufficient)
	}
	if got := inv.quantity(t, "Filter"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	inv.assertConsistent(t)
}

func TestInventory_RemovePartWithHistory(t *testing.T) {
	ctx := context.Background()
	inv := newInventory(nil)
	inv.addPart(t, "Hose", 1)

	if _, err := inv.stock.StockIn(ctx, input("Hose", 1)); err != nil {
		t.Fatalf("stock in: %v", err)
	}

	if err := inv.catalog.RemovePart(ctx, "Hose"); !errors.Is(err, domain.ErrHasHistory) {
		t.Fatalf("expected ErrHasHistory, got %v", err)
	}
	ok, err := inv.catalog.CanDelete(ctx, "Hose")
	if err != nil || ok {
		t.Fatalf("expected CanDelete false, got %v %v", ok, err)
	}
	if got := inv.quantity(t, "Hose"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestInventory_UpdatePartDriftIsReported(t *testing.T) {
	ctx := context.Background()
	inv := newInventory(nil)
	inv.addPart(t, "Gasket", 4)

	_, err := inv.catalog.UpdatePart(ctx, usecase.PartInput{
		Name: "Gasket", Category: "Engine", Quantity: 9, UnitPrice: decimal.RequireFromString("25.00"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	report, err := inv.ledger.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Consistent || len(report.Mismatches) != 1 || report.Mismatches[0].Difference() != 5 {
		t.Fatalf("expected drift of 5, got %+v", report)
	}
}

// failingMovements stages the ledger write and then reports a failure, so the
// transaction is rolled back after a partial write.
type failingMovements struct {
	usecase.MovementRepository
}

func (f failingMovements) Create(ctx context.Context, tx usecase.Transaction, m *domain.Movement) error {
	if err := f.MovementRepository.Create(ctx, tx, m); err != nil {
		return err
	}
	return errors.New("disk full")
}

func TestInventory_FailedLedgerWriteIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	txMgr := memory.NewTxManager(db)
	parts := memory.NewPartRepository(db)
	movements := memory.NewMovementRepository(db)

	catalog := usecase.NewCatalogUseCase(txMgr, parts, movements)
	stock := usecase.NewStockUseCase(txMgr, parts, failingMovements{movements}, ulidGen{}, usecase.WithTransactionTimeout(time.Second))

	if _, err := catalog.AddPart(ctx, usecase.PartInput{Name: "Pump", Quantity: 5, UnitPrice: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("add part: %v", err)
	}

	_, err := stock.StockOut(ctx, input("Pump", 2))
	if !errors.Is(err, domain.ErrTransactionFailed) {
		t.Fatalf("expected ErrTransactionFailed, got %v", err)
	}

	p, _ := parts.GetByName(ctx, "Pump")
	if p.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", p.Quantity)
	}
	history, _ := movements.ListByPart(ctx, "Pump", 10, 0)
	if len(history) != 0 {
		t.Fatalf("expected no ledger entries, got %d", len(history))
	}

	// The part lock was released by the rollback.
	if err := catalog.RemovePart(ctx, "Pump"); err != nil {
		t.Fatalf("remove after failed movement: %v", err)
	}
}
