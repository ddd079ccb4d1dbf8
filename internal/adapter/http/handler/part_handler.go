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

// CatalogService defines the behavior needed by PartHandler.
type CatalogService interface {
	ListParts(ctx context.Context) ([]*domain.Part, error)
	AddPart(ctx context.Context, input usecase.PartInput) (*domain.Part, error)
	UpdatePart(ctx context.Context, input usecase.PartInput) (*domain.Part, error)
	RemovePart(ctx context.Context, name string) error
}

// PartHandler handles catalog HTTP requests.
type PartHandler struct {
	catalogUC CatalogService
	metrics   *metrics.Metrics
}

// NewPartHandler creates a new PartHandler.
func NewPartHandler(catalogUC CatalogService, m *metrics.Metrics) *PartHandler {
	return &PartHandler{catalogUC: catalogUC, metrics: m}
}

// List lists every part with its total value.
func (h *PartHandler) List(w http.ResponseWriter, r *http.Request) {
	parts, err := h.catalogUC.ListParts(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to list parts")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPartsResponse{
		Parts: dto.PartsFromDomain(parts),
		Total: int64(len(parts)),
	})
}

// Create adds a part to the catalog.
func (h *PartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	part, err := h.catalogUC.AddPart(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to add part")
		return
	}

	h.metrics.PartsCreated.Inc()
	writeJSON(w, http.StatusCreated, dto.PartFromDomain(part))
}

// Update overwrites category, quantity and unit price of a part.
func (h *PartHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing part name", "")
		return
	}

	var req dto.UpdatePartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	part, err := h.catalogUC.UpdatePart(r.Context(), req.ToUseCaseInput(name))
	if err != nil {
		writeDomainError(w, err, "failed to update part")
		return
	}

	h.metrics.PartsUpdated.Inc()
	writeJSON(w, http.StatusOK, dto.PartFromDomain(part))
}

// Remove deletes a part that has no stock history.
func (h *PartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing part name", "")
		return
	}

	if err := h.catalogUC.RemovePart(r.Context(), name); err != nil {
		writeDomainError(w, err, "failed to remove part")
		return
	}

	h.metrics.PartsRemoved.Inc()
	w.WriteHeader(http.StatusNoContent)
}
