package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func TestLedgerRepositoryPartTotals(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM spare_parts p").
		WillReturnRows(pgxmock.NewRows([]string{"name", "quantity", "opening_quantity", "stock_in", "stock_out"}).
			AddRow("A", int64(7), int64(5), int64(4), int64(2)).
			AddRow("B", int64(9), int64(0), int64(0), int64(0)))

	totals, err := NewLedgerRepository(mockPool).PartTotals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(totals) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(totals))
	}
	if !totals[0].IsConsistent() || totals[1].IsConsistent() {
		t.Fatalf("unexpected consistency: %+v", totals)
	}
	assertExpectations(t, mockPool)
}

func TestLedgerRepositoryPartTotalsError(t *testing.T) {
	mockPool := newMockPool(t)
	dbErr := errors.New("connection refused")
	mockPool.ExpectQuery("FROM spare_parts p").WillReturnError(dbErr)

	if _, err := NewLedgerRepository(mockPool).PartTotals(context.Background()); !errors.Is(err, dbErr) {
		t.Fatalf("expected %v, got %v", dbErr, err)
	}
}
