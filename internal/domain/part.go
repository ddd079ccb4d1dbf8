package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Part is a spare-part SKU identified by its name.
type Part struct {
	Name            string
	Category        string
	Quantity        int64
	OpeningQuantity int64
	UnitPrice       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalValue returns quantity multiplied by unit price.
func (p *Part) TotalValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// Validate checks the catalog attributes of the part.
func (p *Part) Validate() error {
	if err := ValidatePartName(p.Name); err != nil {
		return err
	}

	if err := ValidateCategory(p.Category); err != nil {
		return err
	}

	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}

	return ValidateUnitPrice(p.UnitPrice)
}

// ValidateStockOut checks that quantity units can be issued from the part.
func (p *Part) ValidateStockOut(quantity int64) error {
	if p.Quantity < quantity {
		return &InsufficientStockError{
			PartName:  p.Name,
			Current:   p.Quantity,
			Requested: quantity,
		}
	}
	return nil
}

// Apply returns the part quantity after a movement in the given direction.
func (p *Part) Apply(direction Direction, quantity int64) (int64, error) {
	switch direction {
	case DirectionIn:
		if quantity > math.MaxInt64-p.Quantity {
			return p.Quantity, ErrQuantityOverflow
		}
		return p.Quantity + quantity, nil
	case DirectionOut:
		if err := p.ValidateStockOut(quantity); err != nil {
			return p.Quantity, err
		}
		return p.Quantity - quantity, nil
	default:
		return p.Quantity, ErrInvalidDirection
	}
}
