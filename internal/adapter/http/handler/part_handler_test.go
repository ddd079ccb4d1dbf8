package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/iho/partledger/internal/adapter/http/dto"
	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/infrastructure/metrics"
	"github.com/iho/partledger/internal/usecase"
)

type catalogServiceStub struct {
	listFn   func(ctx context.Context) ([]*domain.Part, error)
	addFn    func(ctx context.Context, input usecase.PartInput) (*domain.Part, error)
	updateFn func(ctx context.Context, input usecase.PartInput) (*domain.Part, error)
	removeFn func(ctx context.Context, name string) error
}

func (s *catalogServiceStub) ListParts(ctx context.Context) ([]*domain.Part, error) {
	return s.listFn(ctx)
}

func (s *catalogServiceStub) AddPart(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
	return s.addFn(ctx, input)
}

func (s *catalogServiceStub) UpdatePart(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
	return s.updateFn(ctx, input)
}

func (s *catalogServiceStub) RemovePart(ctx context.Context, name string) error {
	return s.removeFn(ctx, name)
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func TestPartHandler_Create_Success(t *testing.T) {
	var captured usecase.PartInput
	m := newTestMetrics()
	handler := NewPartHandler(&catalogServiceStub{
		addFn: func(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
			captured = input
			return &domain.Part{
				Name:            input.Name,
				Category:        input.Category,
				Quantity:        input.Quantity,
				OpeningQuantity: input.Quantity,
				UnitPrice:       input.UnitPrice,
			}, nil
		},
	}, m)

	body := `{"name":"Brake Pad","category":"Brakes","quantity":4,"unit_price":"12.50"}`
	req := httptest.NewRequest(http.MethodPost, "/parts", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Brake Pad" || captured.Quantity != 4 || !captured.UnitPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.PartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.TotalValue.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected total value 50, got %s", resp.TotalValue)
	}
	if got := testutil.ToFloat64(m.PartsCreated); got != 1 {
		t.Fatalf("expected parts created counter 1, got %v", got)
	}
}

func TestPartHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewPartHandler(&catalogServiceStub{
		addFn: func(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
			t.Fatal("AddPart should not be called for invalid payload")
			return nil, nil
		},
	}, newTestMetrics())

	for _, body := range []string{"{invalid json", `{"name":"Bolt"}`, `{"quantity":1}`} {
		req := httptest.NewRequest(http.MethodPost, "/parts", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestPartHandler_Create_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", domain.ErrDuplicatePart, http.StatusConflict},
		{"invalid price", domain.ErrInvalidUnitPrice, http.StatusBadRequest},
		{"db error", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPartHandler(&catalogServiceStub{
				addFn: func(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
					return nil, tt.err
				},
			}, newTestMetrics())

			body := `{"name":"Bolt","quantity":1,"unit_price":"1"}`
			req := httptest.NewRequest(http.MethodPost, "/parts", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestPartHandler_List(t *testing.T) {
	handler := NewPartHandler(&catalogServiceStub{
		listFn: func(ctx context.Context) ([]*domain.Part, error) {
			return []*domain.Part{{Name: "A"}, {Name: "B"}}, nil
		},
	}, newTestMetrics())

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/parts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListPartsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Parts) != 2 || resp.Total != 2 {
		t.Fatalf("expected 2 parts, got %+v", resp)
	}
}

func TestPartHandler_Update(t *testing.T) {
	var captured usecase.PartInput
	handler := NewPartHandler(&catalogServiceStub{
		updateFn: func(ctx context.Context, input usecase.PartInput) (*domain.Part, error) {
			captured = input
			if input.Name == "Missing" {
				return nil, domain.ErrPartNotFound
			}
			return &domain.Part{Name: input.Name, Quantity: input.Quantity, UnitPrice: input.UnitPrice}, nil
		},
	}, newTestMetrics())

	body := `{"category":"Filters","quantity":9,"unit_price":"3.10"}`
	req := httptest.NewRequest(http.MethodPut, "/parts/Oil%20Filter", bytes.NewBufferString(body))
	req = setChiURLParam(req, "name", "Oil Filter")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Oil Filter" || captured.Quantity != 9 || captured.Category != "Filters" {
		t.Fatalf("unexpected input %+v", captured)
	}

	req = httptest.NewRequest(http.MethodPut, "/parts/Missing", bytes.NewBufferString(body))
	req = setChiURLParam(req, "name", "Missing")
	rec = httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPartHandler_Remove(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"removed", nil, http.StatusNoContent},
		{"has history", domain.ErrHasHistory, http.StatusConflict},
		{"not found", domain.ErrPartNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMetrics()
			handler := NewPartHandler(&catalogServiceStub{
				removeFn: func(ctx context.Context, name string) error {
					if name != "Bolt" {
						t.Fatalf("expected name Bolt, got %s", name)
					}
					return tt.err
				},
			}, m)

			req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/parts/Bolt", nil), "name", "Bolt")
			rec := httptest.NewRecorder()

			handler.Remove(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}

			wantRemoved := 0.0
			if tt.err == nil {
				wantRemoved = 1
			}
			if got := testutil.ToFloat64(m.PartsRemoved); got != wantRemoved {
				t.Fatalf("expected parts removed %v, got %v", wantRemoved, got)
			}
		})
	}
}
