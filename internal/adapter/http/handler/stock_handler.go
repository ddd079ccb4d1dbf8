package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/partledger/internal/adapter/http/dto"
	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/metrics"
	"github.com/iho/partledger/internal/usecase"
)

// StockService defines the behavior needed by StockHandler.
type StockService interface {
	StockIn(ctx context.Context, input usecase.StockMovementInput) (*domain.Movement, error)
	StockOut(ctx context.Context, input usecase.StockMovementInput) (*domain.Movement, error)
}

// StockHandler handles stock movement HTTP requests.
type StockHandler struct {
	stockUC StockService
	metrics *metrics.Metrics
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockUC StockService, m *metrics.Metrics) *StockHandler {
	return &StockHandler{stockUC: stockUC, metrics: m}
}

// StockIn records received units.
func (h *StockHandler) StockIn(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.DirectionIn, h.stockUC.StockIn)
}

// StockOut records issued units.
func (h *StockHandler) StockOut(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.DirectionOut, h.stockUC.StockOut)
}

func (h *StockHandler) record(
	w http.ResponseWriter,
	r *http.Request,
	direction domain.Direction,
	move func(context.Context, usecase.StockMovementInput) (*domain.Movement, error),
) {
	label := string(direction)

	var req dto.StockMovementRequest
	if err := decodeJSON(r, &req); err != nil {
		h.metrics.MovementErrors.WithLabelValues(label, errorType(err)).Inc()
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		h.metrics.MovementErrors.WithLabelValues(label, errorType(err)).Inc()
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	start := time.Now()
	movement, err := move(r.Context(), input)
	h.metrics.MovementDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.MovementErrors.WithLabelValues(label, errorType(err)).Inc()
		writeDomainError(w, err, "failed to record stock-"+label)
		return
	}

	h.metrics.Movements.WithLabelValues(label).Inc()
	h.metrics.UnitsMoved.WithLabelValues(label).Add(float64(movement.Quantity))
	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}
