package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

// DateLayout is the wire format of movement dates.
const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks request struct tags. Failures match domain.ErrInvalidInput.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

// CreatePartRequest represents a request to add a part to the catalog.
type CreatePartRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	Category  string          `json:"category" validate:"max=50"`
	Quantity  *int64          `json:"quantity" validate:"required,gte=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartRequest) ToUseCaseInput() usecase.PartInput {
	return usecase.PartInput{
		Name:      r.Name,
		Category:  r.Category,
		Quantity:  derefQuantity(r.Quantity),
		UnitPrice: r.UnitPrice,
	}
}

// UpdatePartRequest represents an administrative overwrite of a part. The name comes from the path.
type UpdatePartRequest struct {
	Category  string          `json:"category" validate:"max=50"`
	Quantity  *int64          `json:"quantity" validate:"required,gte=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdatePartRequest) ToUseCaseInput(name string) usecase.PartInput {
	return usecase.PartInput{
		Name:      name,
		Category:  r.Category,
		Quantity:  derefQuantity(r.Quantity),
		UnitPrice: r.UnitPrice,
	}
}

// StockMovementRequest represents a stock-in or stock-out submission.
type StockMovementRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	PartName string `json:"part_name" validate:"required"`
}

// ToUseCaseInput converts to use case input.
func (r *StockMovementRequest) ToUseCaseInput() (usecase.StockMovementInput, error) {
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return usecase.StockMovementInput{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	return usecase.StockMovementInput{
		Date:     date,
		Quantity: r.Quantity,
		PartName: r.PartName,
	}, nil
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func derefQuantity(q *int64) int64 {
	if q == nil {
		return 0
	}
	return *q
}
