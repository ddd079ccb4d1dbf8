package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

// PartResponse represents a part in API responses.
type PartResponse struct {
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Quantity        int64           `json:"quantity"`
	OpeningQuantity int64           `json:"opening_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalValue      decimal.Decimal `json:"total_value"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PartFromDomain converts domain part to response.
func PartFromDomain(p *domain.Part) *PartResponse {
	return &PartResponse{
		Name:            p.Name,
		Category:        p.Category,
		Quantity:        p.Quantity,
		OpeningQuantity: p.OpeningQuantity,
		UnitPrice:       p.UnitPrice,
		TotalValue:      p.TotalValue(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// PartsFromDomain converts domain parts to responses.
func PartsFromDomain(parts []*domain.Part) []*PartResponse {
	result := make([]*PartResponse, len(parts))
	for i, p := range parts {
		result[i] = PartFromDomain(p)
	}
	return result
}

// ListPartsResponse represents the catalog listing.
type ListPartsResponse struct {
	Parts []*PartResponse `json:"parts"`
	Total int64           `json:"total"`
}

// MovementResponse represents a ledger entry in API responses.
type MovementResponse struct {
	ID               string           `json:"id"`
	PartName         string           `json:"part_name"`
	Direction        domain.Direction `json:"direction"`
	Date             string           `json:"date"`
	Quantity         int64            `json:"quantity"`
	PreviousQuantity int64            `json:"previous_quantity"`
	CurrentQuantity  int64            `json:"current_quantity"`
	CreatedAt        time.Time        `json:"created_at"`
}

// MovementFromDomain converts domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:               m.ID,
		PartName:         m.PartName,
		Direction:        m.Direction,
		Date:             m.Date.Format(DateLayout),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		CurrentQuantity:  m.CurrentQuantity,
		CreatedAt:        m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ListMovementsResponse represents one page of a part's history.
type ListMovementsResponse struct {
	Movements []*MovementResponse `json:"movements"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}

// MismatchResponse describes a part whose quantity disagrees with the ledger.
type MismatchResponse struct {
	PartName         string `json:"part_name"`
	Quantity         int64  `json:"quantity"`
	OpeningQuantity  int64  `json:"opening_quantity"`
	StockIn          int64  `json:"stock_in"`
	StockOut         int64  `json:"stock_out"`
	ExpectedQuantity int64  `json:"expected_quantity"`
	Difference       int64  `json:"difference"`
}

// ConsistencyResponse represents a reconciliation report.
type ConsistencyResponse struct {
	Status       string              `json:"status"`
	Consistent   bool                `json:"consistent"`
	PartsChecked int                 `json:"parts_checked"`
	Mismatches   []*MismatchResponse `json:"mismatches"`
}

// ConsistencyFromReport converts a reconciliation report to response.
func ConsistencyFromReport(r *usecase.ReconciliationReport) *ConsistencyResponse {
	status := "consistent"
	if !r.Consistent {
		status = "inconsistent"
	}

	mismatches := make([]*MismatchResponse, len(r.Mismatches))
	for i, t := range r.Mismatches {
		mismatches[i] = &MismatchResponse{
			PartName:         t.PartName,
			Quantity:         t.Quantity,
			OpeningQuantity:  t.OpeningQuantity,
			StockIn:          t.StockIn,
			StockOut:         t.StockOut,
			ExpectedQuantity: t.Expected(),
			Difference:       t.Difference(),
		}
	}

	return &ConsistencyResponse{
		Status:       status,
		Consistent:   r.Consistent,
		PartsChecked: r.PartsChecked,
		Mismatches:   mismatches,
	}
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Current and Requested are set for insufficient stock.
	Current   *int64 `json:"current,omitempty"`
	Requested *int64 `json:"requested,omitempty"`
}
