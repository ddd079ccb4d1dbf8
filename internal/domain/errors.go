package domain

import (
	"errors"
	"fmt"
)

var (
	// Catalog errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrPartNotFound  = errors.New("spare part not found")
	ErrDuplicatePart = errors.New("spare part already exists")
	ErrHasHistory    = errors.New("spare part has stock history")

	// Movement errors
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTransactionFailed = errors.New("inventory transaction failed")
)

// InsufficientStockError is returned when a stock-out exceeds the current quantity.
// It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	PartName  string
	Current   int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: current stock of %q is %d, requested %d",
		ErrInsufficientStock, e.PartName, e.Current, e.Requested)
}

// Is reports whether target is ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
