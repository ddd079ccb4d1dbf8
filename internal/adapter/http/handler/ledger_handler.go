package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/partledger/internal/adapter/http/dto"
	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/metrics"
	"github.com/iho/partledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context) (*usecase.ReconciliationReport, error)
	ListMovements(ctx context.Context, partName string, limit, offset int) ([]*domain.Movement, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, metrics: m}
}

// CheckConsistency reconciles every part against the ledger.
// An inconsistent ledger is reported with 409.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to check consistency")
		return
	}

	h.metrics.LedgerDiscrepancies.Set(float64(len(report.Mismatches)))

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ConsistencyFromReport(report))
}

// ListMovements returns a part's stock-in and stock-out entries, newest first.
func (h *LedgerHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing part name", "")
		return
	}

	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))

	movements, err := h.ledgerUC.ListMovements(r.Context(), name, limit, offset)
	if err != nil {
		writeDomainError(w, err, "failed to list movements")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMovementsResponse{
		Movements: dto.MovementsFromDomain(movements),
		Limit:     limit,
		Offset:    offset,
	})
}
