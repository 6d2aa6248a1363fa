package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"port-billing/internal/apperror"
	"port-billing/internal/models"
)

type stubCatalogService struct {
	svc      *models.ServiceDefinition
	services []*models.ServiceDefinition
	err      error

	gotCode       string
	gotOnlyActive bool
	deleteCalled  bool
}

func (s *stubCatalogService) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceDefinition, error) {
	return s.svc, s.err
}
func (s *stubCatalogService) GetService(ctx context.Context, serviceID int64) (*models.ServiceDefinition, error) {
	return s.svc, s.err
}
func (s *stubCatalogService) GetServiceByCode(ctx context.Context, code string) (*models.ServiceDefinition, error) {
	s.gotCode = code
	return s.svc, s.err
}
func (s *stubCatalogService) ListServices(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.ServiceDefinition, error) {
	s.gotOnlyActive = onlyActive
	return s.services, s.err
}
func (s *stubCatalogService) UpdateService(ctx context.Context, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceDefinition, error) {
	return s.svc, s.err
}
func (s *stubCatalogService) DeleteService(ctx context.Context, serviceID int64) error {
	s.deleteCalled = true
	return s.err
}

type stubTariffService struct {
	entry   *models.TariffListEntry
	entries []*models.TariffListEntry
	err     error
}

func (s *stubTariffService) CreateTariff(ctx context.Context, req *models.CreateTariffRequest) (*models.TariffListEntry, error) {
	return s.entry, s.err
}
func (s *stubTariffService) GetTariff(ctx context.Context, tariffID int64) (*models.TariffListEntry, error) {
	return s.entry, s.err
}
func (s *stubTariffService) ListForService(ctx context.Context, serviceID int64) ([]*models.TariffListEntry, error) {
	return s.entries, s.err
}
func (s *stubTariffService) UpdateTariff(ctx context.Context, tariffID int64, req *models.UpdateTariffRequest) (*models.TariffListEntry, error) {
	return s.entry, s.err
}
func (s *stubTariffService) DeactivateTariff(ctx context.Context, tariffID int64) (*models.TariffListEntry, error) {
	return s.entry, s.err
}

type stubEventProducer struct {
	serviceCreated    bool
	serviceUpdated    bool
	tariffCreated     bool
	tariffUpdated     bool
	tariffDeactivated bool
}

func (p *stubEventProducer) PublishServiceCreated(svc *models.ServiceDefinition) error {
	p.serviceCreated = true
	return nil
}
func (p *stubEventProducer) PublishServiceUpdated(svc *models.ServiceDefinition) error {
	p.serviceUpdated = true
	return nil
}
func (p *stubEventProducer) PublishTariffCreated(entry *models.TariffListEntry) error {
	p.tariffCreated = true
	return nil
}
func (p *stubEventProducer) PublishTariffUpdated(entry *models.TariffListEntry) error {
	p.tariffUpdated = true
	return nil
}
func (p *stubEventProducer) PublishTariffDeactivated(tariffID, serviceID int64) error {
	p.tariffDeactivated = true
	return nil
}

func testService() *models.ServiceDefinition {
	return &models.ServiceDefinition{
		ID:              1,
		Code:            "MOORING",
		Name:            "Швартовка",
		CalculationType: models.CalculationTypePerUnit,
		BasePrice:       40,
		Currency:        "TRY",
		Active:          true,
	}
}

func TestServiceHandler_CreateService(t *testing.T) {
	producer := &stubEventProducer{}
	h := NewServiceHandler(&stubCatalogService{svc: testService()}, &stubTariffService{}, producer, newHandlerTestLogger())

	body, _ := json.Marshal(&models.CreateServiceRequest{
		Code:            "MOORING",
		Name:            "Швартовка",
		CalculationType: models.CalculationTypePerUnit,
		BasePrice:       40,
		Currency:        "TRY",
	})

	w := httptest.NewRecorder()
	h.CreateService(w, httptest.NewRequest(http.MethodPost, "/api/services", bytes.NewBuffer(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !producer.serviceCreated {
		t.Fatal("expected service created event")
	}
}

func TestServiceHandler_CreateService_Conflict(t *testing.T) {
	h := NewServiceHandler(&stubCatalogService{err: apperror.Conflict("service code already exists", nil)},
		&stubTariffService{}, nil, newHandlerTestLogger())

	body, _ := json.Marshal(&models.CreateServiceRequest{Code: "MOORING"})

	w := httptest.NewRecorder()
	h.CreateService(w, httptest.NewRequest(http.MethodPost, "/api/services", bytes.NewBuffer(body)))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestServiceHandler_ListServices(t *testing.T) {
	catalog := &stubCatalogService{services: []*models.ServiceDefinition{testService()}}
	h := NewServiceHandler(catalog, &stubTariffService{}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.ListServices(w, httptest.NewRequest(http.MethodGet, "/api/services?active=true", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !catalog.gotOnlyActive {
		t.Fatal("active=true filter not passed through")
	}
}

func TestServiceHandler_ListServices_ByCode(t *testing.T) {
	catalog := &stubCatalogService{svc: testService()}
	h := NewServiceHandler(catalog, &stubTariffService{}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.ListServices(w, httptest.NewRequest(http.MethodGet, "/api/services?code=MOORING", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if catalog.gotCode != "MOORING" {
		t.Fatalf("expected lookup by code, got %q", catalog.gotCode)
	}

	var list []*models.ServiceDefinition
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil || len(list) != 1 {
		t.Fatalf("expected single-element list, got %v err=%v", list, err)
	}
}

func TestServiceHandler_GetService_BadID(t *testing.T) {
	h := NewServiceHandler(&stubCatalogService{}, &stubTariffService{}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.GetService(w, httptest.NewRequest(http.MethodGet, "/api/services/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestServiceHandler_GetService_NotFound(t *testing.T) {
	h := NewServiceHandler(&stubCatalogService{err: apperror.NotFound("service not found", nil)},
		&stubTariffService{}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.GetService(w, httptest.NewRequest(http.MethodGet, "/api/services/42", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestServiceHandler_UpdateService(t *testing.T) {
	producer := &stubEventProducer{}
	h := NewServiceHandler(&stubCatalogService{svc: testService()}, &stubTariffService{}, producer, newHandlerTestLogger())

	body, _ := json.Marshal(&models.UpdateServiceRequest{Name: "Швартовка", CalculationType: models.CalculationTypePerUnit, BasePrice: 45, Currency: "TRY"})

	w := httptest.NewRecorder()
	h.UpdateService(w, httptest.NewRequest(http.MethodPut, "/api/services/1", bytes.NewBuffer(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !producer.serviceUpdated {
		t.Fatal("expected service updated event")
	}
}

func TestServiceHandler_DeleteService(t *testing.T) {
	catalog := &stubCatalogService{}
	h := NewServiceHandler(catalog, &stubTariffService{}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.DeleteService(w, httptest.NewRequest(http.MethodDelete, "/api/services/1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !catalog.deleteCalled {
		t.Fatal("delete not called")
	}
}

func TestServiceHandler_ListServiceTariffs(t *testing.T) {
	entries := []*models.TariffListEntry{{ID: 1, ServiceID: 1, UnitPrice: 55, Currency: "TRY", IsActive: true}}
	h := NewServiceHandler(&stubCatalogService{}, &stubTariffService{entries: entries}, nil, newHandlerTestLogger())

	w := httptest.NewRecorder()
	h.ListServiceTariffs(w, httptest.NewRequest(http.MethodGet, "/api/services/1/tariffs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got []*models.TariffListEntry
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil || len(got) != 1 {
		t.Fatalf("expected 1 entry, got %v err=%v", got, err)
	}
}
