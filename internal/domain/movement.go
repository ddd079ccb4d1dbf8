package domain

import (
	"strings"
	"time"
)

// Direction tells which ledger stream a movement belongs to.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Movement is an immutable stock-in or stock-out ledger entry.
type Movement struct {
	CreatedAt        time.Time
	Date             time.Time
	ID               string
	PartName         string
	Direction        Direction
	Quantity         int64
	PreviousQuantity int64
	CurrentQuantity  int64
}

// Validate checks the request shape of a movement.
func (m *Movement) Validate() error {
	if !m.Direction.IsValid() {
		return ErrInvalidDirection
	}

	if m.Date.IsZero() {
		return ErrMissingDate
	}

	if m.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	if strings.TrimSpace(m.PartName) == "" {
		return ErrMissingPartName
	}

	return nil
}

// Delta returns the signed effect of the movement on the part quantity.
func (m *Movement) Delta() int64 {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}

// PartTotals is the ledger aggregate of one part used for reconciliation.
type PartTotals struct {
	PartName        string
	Quantity        int64
	OpeningQuantity int64
	StockIn         int64
	StockOut        int64
}

// Expected returns the quantity implied by the opening quantity and the ledger.
func (t PartTotals) Expected() int64 {
	return t.OpeningQuantity + t.StockIn - t.StockOut
}

// Difference returns recorded minus expected quantity.
func (t PartTotals) Difference() int64 {
	return t.Quantity - t.Expected()
}

// IsConsistent reports whether the recorded quantity matches the ledger and is non-negative.
func (t PartTotals) IsConsistent() bool {
	return t.Difference() == 0 && t.Quantity >= 0
}
