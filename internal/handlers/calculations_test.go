package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"port-billing/internal/apperror"
	"port-billing/internal/config"
	"port-billing/internal/logger"
	"port-billing/internal/models"
)

func newHandlerTestLogger() *logger.Logger {
	return logger.New(&config.LoggerConfig{Level: "error", Format: "json"})
}

type stubCalculationService struct {
	result *models.CalculationResult
	err    error
	gotReq *models.CalculationRequest
}

func (s *stubCalculationService) Calculate(ctx context.Context, req *models.CalculationRequest) (*models.CalculationResult, error) {
	s.gotReq = req
	return s.result, s.err
}

func calcBody(t *testing.T, req *models.CalculationRequest) *bytes.Buffer {
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(data)
}

func TestCalculationHandler_Calculate_Success(t *testing.T) {
	stub := &stubCalculationService{
		result: &models.CalculationResult{
			CalculatedPrice:       45,
			Currency:              "TRY",
			CalculationType:       models.CalculationTypeSecondaryMultiplier,
			FormulaUsed:           "multiplier_x * weight_tons * person_count",
			TariffOverrideApplied: true,
			EffectiveDate:         "2026-03-01",
		},
	}
	h := NewCalculationHandler(stub, newHandlerTestLogger())

	personCount := 3.0
	req := &models.CalculationRequest{
		ServiceID:     1,
		EffectiveDate: "2026-03-01",
		CalculationParams: models.CalculationParams{
			PersonCount: &personCount,
		},
	}

	w := httptest.NewRecorder()
	h.Calculate(w, httptest.NewRequest(http.MethodPost, "/api/calculations", calcBody(t, req)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.CalculationResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.CalculatedPrice != 45 || !result.TariffOverrideApplied {
		t.Fatalf("unexpected result: %+v", result)
	}
	if stub.gotReq == nil || stub.gotReq.ServiceID != 1 {
		t.Fatalf("service did not receive the request: %+v", stub.gotReq)
	}
}

func TestCalculationHandler_Calculate_MethodNotAllowed(t *testing.T) {
	h := NewCalculationHandler(&stubCalculationService{}, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.Calculate(w, httptest.NewRequest(http.MethodGet, "/api/calculations", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestCalculationHandler_Calculate_InvalidBody(t *testing.T) {
	h := NewCalculationHandler(&stubCalculationService{}, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.Calculate(w, httptest.NewRequest(http.MethodPost, "/api/calculations", bytes.NewBufferString("{bad")))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCalculationHandler_Calculate_MissingFields(t *testing.T) {
	h := NewCalculationHandler(&stubCalculationService{}, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.Calculate(w, httptest.NewRequest(http.MethodPost, "/api/calculations",
		calcBody(t, &models.CalculationRequest{EffectiveDate: "2026-03-01"})))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing service_id: expected 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.Calculate(w, httptest.NewRequest(http.MethodPost, "/api/calculations",
		calcBody(t, &models.CalculationRequest{ServiceID: 1})))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing effective_date: expected 400, got %d", w.Code)
	}
}

func TestCalculationHandler_Calculate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{"unknown service", apperror.NotFound("service not found", nil), http.StatusNotFound, ""},
		{"missing param", apperror.Validation("person_count is required for per_unit calculation", "person_count"), http.StatusBadRequest, "person_count"},
		{"bad param", apperror.InvalidParameter("block_size must be positive, got 0", "block_size"), http.StatusUnprocessableEntity, "block_size"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewCalculationHandler(&stubCalculationService{err: tc.err}, newHandlerTestLogger())

			req := &models.CalculationRequest{ServiceID: 1, EffectiveDate: "2026-03-01"}
			w := httptest.NewRecorder()
			h.Calculate(w, httptest.NewRequest(http.MethodPost, "/api/calculations", calcBody(t, req)))

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, resp.Field)
			}
		})
	}
}

func TestCalculationHandler_Calculate_InternalError(t *testing.T) {
	h := NewCalculationHandler(&stubCalculationService{err: context.DeadlineExceeded}, newHandlerTestLogger())

	req := &models.CalculationRequest{ServiceID: 1, EffectiveDate: "2026-03-01"}
	w := httptest.NewRecorder()
	h.Calculate(w, httptest.NewRequest(http.MethodPost, "/api/calculations", calcBody(t, req)))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
