package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"port-billing/internal/logger"
	"port-billing/internal/models"
)

// ServiceHandler обрабатывает каталог услуг.
type ServiceHandler struct {
	catalogService CatalogService
	tariffService  TariffService
	producer       EventProducer
	log            *logger.Logger
}

// NewServiceHandler создает обработчик каталога.
func NewServiceHandler(catalogService CatalogService, tariffService TariffService, producer EventProducer, log *logger.Logger) *ServiceHandler {
	return &ServiceHandler{
		catalogService: catalogService,
		tariffService:  tariffService,
		producer:       producer,
		log:            log,
	}
}

// CreateService создает услугу в каталоге.
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.catalogService.CreateService(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create service")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishServiceCreated(svc); err != nil {
			h.log.WithError(err).Error("Failed to publish service created event")
			// Услуга уже создана, клиенту ошибку не возвращаем
		}
	}

	h.log.WithField("service_code", svc.Code).Info("Service created successfully")
	writeJSONResponse(w, http.StatusCreated, svc)
}

// ListServices возвращает список услуг.
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit, offset := parseLimitOffset(r)
	onlyActive := strings.EqualFold(r.URL.Query().Get("active"), "true")

	// Поиск по коду услуги, если передан
	if code := r.URL.Query().Get("code"); code != "" {
		svc, err := h.catalogService.GetServiceByCode(r.Context(), code)
		if err != nil {
			writeServiceError(w, h.log, err, "Failed to get service")
			return
		}
		writeJSONResponse(w, http.StatusOK, []*models.ServiceDefinition{svc})
		return
	}

	services, err := h.catalogService.ListServices(r.Context(), onlyActive, limit, offset)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list services")
		return
	}

	writeJSONResponse(w, http.StatusOK, services)
}

// GetService возвращает услугу по id.
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/services/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	svc, err := h.catalogService.GetService(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to get service")
		return
	}

	writeJSONResponse(w, http.StatusOK, svc)
}

// UpdateService обновляет услугу.
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/services/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.catalogService.UpdateService(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update service")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishServiceUpdated(svc); err != nil {
			h.log.WithError(err).Error("Failed to publish service updated event")
		}
	}

	writeJSONResponse(w, http.StatusOK, svc)
}

// DeleteService удаляет услугу.
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/services/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalogService.DeleteService(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "Failed to delete service")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Service deleted"})
}

// ListServiceTariffs возвращает тарифные записи услуги.
func (h *ServiceHandler) ListServiceTariffs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := extractIDFromPath(r.URL.Path, "/api/services/")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.tariffService.ListForService(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to list service tariffs")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}
