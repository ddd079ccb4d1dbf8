package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors. All of them match ErrInvalidInput.
var (
	ErrInvalidPartName  = fmt.Errorf("%w: invalid part name", ErrInvalidInput)
	ErrInvalidCategory  = fmt.Errorf("%w: invalid category", ErrInvalidInput)
	ErrNegativeQuantity = fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidInput)
	ErrInvalidUnitPrice = fmt.Errorf("%w: unit price must be greater than 0", ErrInvalidInput)
	ErrMissingDate      = fmt.Errorf("%w: date is required", ErrInvalidInput)
	ErrMissingPartName  = fmt.Errorf("%w: part name is required", ErrInvalidInput)
	ErrInvalidDirection = fmt.Errorf("%w: unknown movement direction", ErrInvalidInput)
	ErrQuantityOverflow = fmt.Errorf("%w: quantity would exceed the maximum stock level", ErrInvalidInput)
)

// Validation constants, sized after the storage columns.
const (
	MaxPartNameLength = 100
	MaxCategoryLength = 50
	MaxUnitPrice      = "99999999.99"
	UnitPricePlaces   = 2
)

// ValidatePartName validates a part name.
func ValidatePartName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPartName)
	}

	if trimmed != name {
		return fmt.Errorf("%w: name has leading or trailing whitespace", ErrInvalidPartName)
	}

	if utf8.RuneCountInString(name) > MaxPartNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPartName, MaxPartNameLength)
	}

	return nil
}

// ValidateCategory validates a category. Empty categories are allowed.
func ValidateCategory(category string) error {
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidCategory, MaxCategoryLength)
	}
	return nil
}

// ValidateUnitPrice validates a unit price.
func ValidateUnitPrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidUnitPrice
	}

	if !price.Equal(price.Truncate(UnitPricePlaces)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidUnitPrice, UnitPricePlaces)
	}

	maxPrice, _ := decimal.NewFromString(MaxUnitPrice)
	if price.GreaterThan(maxPrice) {
		return fmt.Errorf("%w: maximum is %s", ErrInvalidUnitPrice, MaxUnitPrice)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
