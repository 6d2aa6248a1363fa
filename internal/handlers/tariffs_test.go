package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"port-billing/internal/apperror"
	"port-billing/internal/models"
)

func testTariffEntry() *models.TariffListEntry {
	return &models.TariffListEntry{
		ID:        10,
		ServiceID: 1,
		UnitPrice: 55,
		Currency:  "TRY",
		ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func TestTariffHandler_CreateTariff(t *testing.T) {
	producer := &stubEventProducer{}
	h := NewTariffHandler(&stubTariffService{entry: testTariffEntry()}, producer, newHandlerTestLogger())

	body, _ := json.Marshal(&models.CreateTariffRequest{
		ServiceID: 1,
		UnitPrice: 55,
		Currency:  "TRY",
		ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})

	w := httptest.NewRecorder()
	h.CreateTariff(w, httptest.NewRequest(http.MethodPost, "/api/tariffs", bytes.NewBuffer(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !producer.tariffCreated {
		t.Fatal("expected tariff created event")
	}
}

func TestTariffHandler_CreateTariff_MissingServiceID(t *testing.T) {
	h := NewTariffHandler(&stubTariffService{}, nil, newHandlerTestLogger())

	body, _ := json.Marshal(&models.CreateTariffRequest{UnitPrice: 55, Currency: "TRY"})

	w := httptest.NewRecorder()
	h.CreateTariff(w, httptest.NewRequest(http.MethodPost, "/api/tariffs", bytes.NewBuffer(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTariffHandler_CreateTariff_ValidationError(t *testing.T) {
	h := NewTariffHandler(&stubTariffService{err: apperror.Validation("valid_from is required", "valid_from")}, nil, newHandlerTestLogger())

	body, _ := json.Marshal(&models.CreateTariffRequest{ServiceID: 1, UnitPrice: 55, Currency: "TRY"})

	w := httptest.NewRecorder()
	h.CreateTariff(w, httptest.NewRequest(http.MethodPost, "/api/tariffs", bytes.NewBuffer(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Field != "valid_from" {
		t.Fatalf("expected field valid_from, got %q", resp.Field)
	}
}

func TestTariffHandler_GetTariff(t *testing.T) {
	h := NewTariffHandler(&stubTariffService{entry: testTariffEntry()}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.GetTariff(w, httptest.NewRequest(http.MethodGet, "/api/tariffs/10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var entry models.TariffListEntry
	if err := json.NewDecoder(w.Body).Decode(&entry); err != nil || entry.ID != 10 {
		t.Fatalf("unexpected entry %+v err=%v", entry, err)
	}
}

func TestTariffHandler_GetTariff_NotFound(t *testing.T) {
	h := NewTariffHandler(&stubTariffService{err: apperror.NotFound("tariff entry not found", nil)}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.GetTariff(w, httptest.NewRequest(http.MethodGet, "/api/tariffs/42", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestTariffHandler_UpdateTariff(t *testing.T) {
	producer := &stubEventProducer{}
	h := NewTariffHandler(&stubTariffService{entry: testTariffEntry()}, producer, newHandlerTestLogger())

	body, _ := json.Marshal(&models.UpdateTariffRequest{UnitPrice: 60, Currency: "TRY", ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})

	w := httptest.NewRecorder()
	h.UpdateTariff(w, httptest.NewRequest(http.MethodPut, "/api/tariffs/10", bytes.NewBuffer(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !producer.tariffUpdated {
		t.Fatal("expected tariff updated event")
	}
}

func TestTariffHandler_DeactivateTariff(t *testing.T) {
	producer := &stubEventProducer{}
	entry := testTariffEntry()
	entry.IsActive = false
	h := NewTariffHandler(&stubTariffService{entry: entry}, producer, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.DeactivateTariff(w, httptest.NewRequest(http.MethodPost, "/api/tariffs/10/deactivate", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !producer.tariffDeactivated {
		t.Fatal("expected tariff deactivated event")
	}
}

func TestTariffHandler_MethodNotAllowed(t *testing.T) {
	h := NewTariffHandler(&stubTariffService{}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.CreateTariff(w, httptest.NewRequest(http.MethodGet, "/api/tariffs", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
